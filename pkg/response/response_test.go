package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/social-graph/pkg/errs"
)

func TestStatusOf(t *testing.T) {
	cases := map[error]int{
		errs.Unauthorized("x"):    http.StatusUnauthorized,
		errs.Forbidden("x"):       http.StatusForbidden,
		errs.NotFound("x"):        http.StatusNotFound,
		errs.InvalidArgument("x"): http.StatusBadRequest,
		errs.Conflict("x"):        http.StatusConflict,
		errors.New("x"):           http.StatusInternalServerError,
	}
	for err, want := range cases {
		assert.Equal(t, want, StatusOf(err), err.Error())
	}
}

func TestErrorHidesInternalMessage(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Error(c, errors.New("pq: connection refused"))

	require.Equal(t, http.StatusInternalServerError, w.Code)
	var body Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "internal server error", body.Message)
}
