package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/grindsup/trainer-gateway/internal/middleware"
	appErrors "github.com/grindsup/trainer-gateway/pkg/errors"
	"github.com/grindsup/trainer-gateway/pkg/response"
)

const dateLayout = "2006-01-02"

// abandoned reports whether the client went away. Nothing is written for such
// requests; their results are dropped.
func abandoned(c *gin.Context) bool {
	return c.Request.Context().Err() != nil
}

func fail(c *gin.Context, err error) {
	if abandoned(c) {
		c.Abort()
		return
	}
	response.Error(c, err)
}

func ok(c *gin.Context, data interface{}) {
	if abandoned(c) {
		return
	}
	response.JSON(c, http.StatusOK, data)
}

func created(c *gin.Context, data interface{}) {
	if abandoned(c) {
		return
	}
	response.Created(c, data)
}

func withWarning(c *gin.Context, data interface{}, warning string) {
	if abandoned(c) {
		return
	}
	response.Warning(c, data, warning)
}

func noContent(c *gin.Context) {
	if abandoned(c) {
		return
	}
	response.NoContent(c)
}

func invalidPayload(c *gin.Context, err error) {
	fail(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
}

func trainerID(c *gin.Context) (int64, bool) {
	id, found := middleware.TrainerIDFromContext(c)
	if !found {
		fail(c, appErrors.ErrTrainerNotLinked)
		return 0, false
	}
	return id, true
}

// pathID parses a positive numeric path parameter, answering 400 otherwise.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		fail(c, appErrors.WithDetails(
			appErrors.Clone(appErrors.ErrValidation, "invalid "+name),
			[]appErrors.FieldError{{Field: name, Rule: "numeric"}},
		))
		return 0, false
	}
	return id, true
}

// dayBounds turns an optional YYYY-MM-DD into the first (or last) instant of
// that day in loc. Inputs are validated before reaching here.
func dayBounds(raw string, loc *time.Location, endOfDay bool) *time.Time {
	if raw == "" {
		return nil
	}
	day, err := time.ParseInLocation(dateLayout, raw, loc)
	if err != nil {
		return nil
	}
	if endOfDay {
		day = day.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return &day
}
