package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"xchain-backend/internal/dto"
	"xchain-backend/internal/errs"
	"xchain-backend/internal/repository"
)

// AccountKey is the gin context key holding the authenticated account.
const AccountKey = "account"

// callerOf returns the account set by the auth middleware.
func callerOf(c *gin.Context) string {
	return c.GetString(AccountKey)
}

// respondWithError unified error response function
func respondWithError(c *gin.Context, err error) {
	code := errs.CodeOf(err)
	message := errs.MessageOf(err)
	if code == errs.CodeInternal {
		message = "internal error"
	}
	c.JSON(errs.HTTPStatus(code), gin.H{
		"success": false,
		"code":    code,
		"error":   message,
	})
}

// respondWithBindError reports a malformed request body
func respondWithBindError(c *gin.Context, err error) {
	respondWithError(c, errs.InvalidParam("invalid request: %v", err))
}

func respondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    data,
	})
}

func parseID(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondWithError(c, errs.InvalidParam("invalid order id: %q", c.Param("id")))
		return 0, false
	}
	return id, true
}

// parseOrderFilter reads account, chain, status, limit and offset
func parseOrderFilter(c *gin.Context) repository.OrderFilter {
	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))
	if offset < 0 {
		offset = 0
	}
	return repository.OrderFilter{
		Account: c.Query("account"),
		Chain:   c.Query("chain"),
		Status:  c.Query("status"),
		Limit:   limit,
		Offset:  offset,
	}
}

func respondList(c *gin.Context, data interface{}, total int64, filter repository.OrderFilter) {
	c.JSON(http.StatusOK, dto.ListResponse{
		Success: true,
		Data:    data,
		Total:   total,
		Limit:   filter.Limit,
		Offset:  filter.Offset,
	})
}
