package services

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"sort"
	"strings"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrDuplicateSlug      = errors.New("slug already in use")
	ErrValidation         = errors.New("validation failed")
	ErrTransientStore     = errors.New("data store temporarily unavailable")
	ErrNotFound           = errors.New("not found")
	ErrServiceKeyMissing  = errors.New("service role key is not configured")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// ValidationError carries per-field messages for a rejected form.
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// ProductFailure is one product row that could not be linked or unlinked.
type ProductFailure struct {
	ProductID string
	Op        string
	Err       error
}

// PartialReconciliationError reports that the promotion row was committed
// but some product rows did not follow. The store is in a mixed state.
type PartialReconciliationError struct {
	PromotionID string
	Failures    []ProductFailure
	Succeeded   int
}

func (e *PartialReconciliationError) Error() string {
	ids := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		ids = append(ids, f.Op+" "+f.ProductID)
	}
	return fmt.Sprintf("promotion %s saved but %d product update(s) failed (%d succeeded): %s",
		e.PromotionID, len(e.Failures), e.Succeeded, strings.Join(ids, ", "))
}

func (e *PartialReconciliationError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failures))
	for _, f := range e.Failures {
		errs = append(errs, f.Err)
	}
	return errs
}

type ErrorKind int

const (
	KindNone ErrorKind = iota
	KindUnauthorized
	KindDuplicateSlug
	KindValidation
	KindPartialReconciliation
	KindTransient
	KindNotFound
	KindUnknown
)

func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindUnauthorized:
		return "unauthorized"
	case KindDuplicateSlug:
		return "duplicate_slug"
	case KindValidation:
		return "validation"
	case KindPartialReconciliation:
		return "partial_reconciliation"
	case KindTransient:
		return "transient"
	case KindNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// KindOf classifies err for the form boundary. A partial reconciliation is
// checked first since it wraps the per-row causes.
func KindOf(err error) ErrorKind {
	var partial *PartialReconciliationError
	switch {
	case err == nil:
		return KindNone
	case errors.As(err, &partial):
		return KindPartialReconciliation
	case errors.Is(err, ErrUnauthorized):
		return KindUnauthorized
	case errors.Is(err, ErrDuplicateSlug):
		return KindDuplicateSlug
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrTransientStore):
		return KindTransient
	default:
		return KindUnknown
	}
}

// UserMessage is the notification shown to the admin for err.
func UserMessage(err error) string {
	switch {
	case errors.Is(err, ErrServiceKeyMissing):
		return "La gestión de usuarios no está disponible: falta la clave de servicio."
	case errors.Is(err, ErrInvalidCredentials):
		return "Correo o contraseña incorrectos."
	}

	switch KindOf(err) {
	case KindNone:
		return ""
	case KindUnauthorized:
		return "No tienes permisos para realizar esta acción."
	case KindDuplicateSlug:
		return "Ya existe un registro con ese slug. Elige otro."
	case KindValidation:
		var verr *ValidationError
		if errors.As(err, &verr) {
			return "Revisa el formulario: " + strings.TrimPrefix(verr.Error(), "validation failed: ")
		}
		return "Revisa los datos del formulario."
	case KindPartialReconciliation:
		var partial *PartialReconciliationError
		errors.As(err, &partial)
		return fmt.Sprintf("La promoción se guardó, pero %d producto(s) no se pudieron actualizar. Vuelve a guardar para reintentar.", len(partial.Failures))
	case KindNotFound:
		return "El registro no existe."
	case KindTransient:
		return "No se pudo conectar con la base de datos. Inténtalo de nuevo."
	default:
		return "Ocurrió un error inesperado."
	}
}

// storeError maps a raw gorm/driver error into the service taxonomy.
// Unique-key violations are left for the caller, which knows the column.
func storeError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	if isTransient(err) {
		return fmt.Errorf("%w: %v", ErrTransientStore, err)
	}
	return err
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var myErr *mysql.MySQLError
	return errors.As(err, &myErr) && myErr.Number == 1062
}

func isTransient(err error) bool {
	if errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, mysql.ErrInvalidConn) ||
		errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
