package utils

import "github.com/gin-gonic/gin"

// BoolQuery reads an optional boolean filter. Absent means no filter; any value other
// than "true" filters on false.
func BoolQuery(c *gin.Context, key string) *bool {
	raw, ok := c.GetQuery(key)
	if !ok {
		return nil
	}
	v := raw == "true"
	return &v
}
