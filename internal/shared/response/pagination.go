package response

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// PageQuery reads page and page_size, defaulting page to 1 and page_size to 0 (all).
func PageQuery(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "0"))
	if pageSize < 0 {
		pageSize = 0
	}
	return page, pageSize
}
