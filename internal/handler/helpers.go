package handler

import (
	"errors"
	"net/http"
	"reflect"
	"time"

	"github.com/GloDelMar/la-tiendita-pos/internal/apierror"
	"github.com/GloDelMar/la-tiendita-pos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails —
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON invalido: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// writeError maps service sentinel errors onto HTTP status codes.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCajaNoEncontrada),
		errors.Is(err, service.ErrDeudorNoEncontrado):
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
	case errors.Is(err, service.ErrOperacionNoPermitida):
		c.JSON(http.StatusMethodNotAllowed, apierror.New(err.Error()))
	case errors.Is(err, service.ErrConflictoConcurrencia):
		c.JSON(http.StatusConflict, apierror.New(err.Error()))
	case errors.Is(err, service.ErrMontoExcedeDeuda),
		errors.Is(err, service.ErrMontoInvalido):
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
	default:
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
	}
}

// pathID parses the :id path parameter. Writes the 400 itself on failure.
func pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return uuid.Nil, false
	}
	return id, true
}

// queryCajaID parses the optional caja_id query parameter into a scope.
func queryCajaID(c *gin.Context) (*uuid.UUID, bool) {
	raw := c.Query("caja_id")
	if raw == "" {
		return nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("caja_id invalido"))
		return nil, false
	}
	return &id, true
}

// queryFecha parses an optional YYYY-MM-DD query parameter, defaulting to hoy.
func queryFecha(c *gin.Context, name string) (time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return time.Now().UTC(), true
	}
	fecha, err := time.Parse("2006-01-02", raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("fecha invalida, use YYYY-MM-DD"))
		return time.Time{}, false
	}
	return fecha, true
}
