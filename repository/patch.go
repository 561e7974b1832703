package repository

import "tonotes/model"

// patchFields lists the columns a patch sets, keyed by their stored name.
// Cleared optional values are written as untyped nil.
func patchFields(patch model.NotePatch) map[string]interface{} {
	fields := map[string]interface{}{}
	if patch.Title.Set {
		fields["title"] = patch.Title.Value
	}
	if patch.Content.Set {
		fields["content"] = nullable(patch.Content.Value)
	}
	if patch.IsArchived.Set {
		fields["is_archived"] = patch.IsArchived.Value
	}
	if patch.IsPinned.Set {
		fields["is_pinned"] = patch.IsPinned.Value
	}
	if patch.IsStarred.Set {
		fields["is_starred"] = patch.IsStarred.Value
	}
	if patch.Color.Set {
		fields["color"] = nullable(patch.Color.Value)
	}
	return fields
}

func nullable(s *string) interface{} {
	if s == nil {
		return nil
	}
	return *s
}
