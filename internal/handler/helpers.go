package handler

import (
	"errors"
	"net/http"
	"reflect"

	"github.com/RamsesGirala/machinery-ops/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
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
		respondError(c, apierror.Validation("JSON inválido: "+err.Error(), nil))
		return false
	}
	if err := validate.Struct(req); err != nil {
		respondError(c, apierror.Validation("Payload inválido", validationFields(err)))
		return false
	}
	return true
}

// bindQueryAndValidate does the same for query-string filters.
func bindQueryAndValidate(c *gin.Context, filter interface{}) bool {
	if err := c.ShouldBindQuery(filter); err != nil {
		respondError(c, apierror.Validation("Query inválida: "+err.Error(), nil))
		return false
	}
	if err := validate.Struct(filter); err != nil {
		respondError(c, apierror.Validation("Query inválida", validationFields(err)))
		return false
	}
	return true
}

func validationFields(err error) map[string]any {
	fields := make(map[string]any)
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			fields[fe.Field()] = fe.Tag()
		}
	}
	return fields
}

// respondError writes the error envelope. Domain conflicts are expected
// traffic; only unmapped errors log at error level and become a 500.
func respondError(c *gin.Context, err error) {
	var apiErr *apierror.Error
	if errors.As(err, &apiErr) {
		if apiErr.Status >= http.StatusInternalServerError {
			log.Error().Str("code", apiErr.Code).Str("path", c.FullPath()).Msg(apiErr.Message)
		}
		c.JSON(apiErr.Status, apierror.Wrap(apiErr))
		return
	}
	log.Error().Err(err).Str("path", c.FullPath()).Msg("error no mapeado")
	unexpected := apierror.Unexpected()
	c.JSON(unexpected.Status, apierror.Wrap(unexpected))
}

// parseUUIDParam parses the :id route param, writing the 400 on failure.
func parseUUIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, apierror.Validation("ID inválido", nil))
		return uuid.Nil, false
	}
	return id, true
}
