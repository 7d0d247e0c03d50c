package rest

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
)

// parsePagination extracts optional limit/offset query parameters
func parsePagination(c *gin.Context) (*int, *uint64, error) {
	var limit *int
	var offset *uint64

	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return nil, nil, fmt.Errorf("invalid limit: %s", raw)
		}
		limit = &parsed
	}

	if raw := c.Query("offset"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid offset: %s", raw)
		}
		offset = &parsed
	}

	return limit, offset, nil
}

// parseBoolQuery extracts an optional boolean query parameter
func parseBoolQuery(c *gin.Context, name string) (*bool, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}

	parsed, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %s", name, raw)
	}
	return &parsed, nil
}

// parseIDParam extracts a numeric path parameter
func parseIDParam(c *gin.Context, name string) (uint64, error) {
	raw := c.Param(name)
	parsed, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || parsed == 0 {
		return 0, fmt.Errorf("invalid %s: %s", name, raw)
	}
	return parsed, nil
}
