package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/jengzang/grenades-backend-go/internal/repository"
	"github.com/jengzang/grenades-backend-go/internal/service"
)

func TestFail_StatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("%w: bad map", service.ErrInvalidInput), http.StatusBadRequest},
		{fmt.Errorf("%w: bad hash", service.ErrUnauthorized), http.StatusUnauthorized},
		{fmt.Errorf("grenade 3: %w", repository.ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("key combo: %w", repository.ErrConflict), http.StatusConflict},
		{errors.New("disk on fire"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.err.Error(), func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			fail(c, tc.err, "failed")

			assert.Equal(t, tc.want, w.Code)
			assert.True(t, c.IsAborted())
			if tc.want == http.StatusInternalServerError {
				assert.NotContains(t, w.Body.String(), "disk on fire")
			}
		})
	}
}
