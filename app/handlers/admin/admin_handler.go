package admin

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/josebdo/Cristal-Event-Planner/app/helpers"
	"github.com/josebdo/Cristal-Event-Planner/app/models/other"
	"github.com/josebdo/Cristal-Event-Planner/app/services"
	"github.com/josebdo/Cristal-Event-Planner/app/storage"
	"github.com/unrolled/render"
	"go.uber.org/zap"
)

type AdminHandler struct {
	render         *render.Render
	catalog        *services.CatalogService
	promotions     *services.PromotionService
	settings       *services.SettingsService
	users          *services.UserService
	storefront     *services.StorefrontService
	bucket         storage.Bucket
	maxUploadBytes int64
}

func NewAdminHandler(
	render *render.Render,
	catalog *services.CatalogService,
	promotions *services.PromotionService,
	settings *services.SettingsService,
	users *services.UserService,
	storefront *services.StorefrontService,
	bucket storage.Bucket,
	maxUploadBytes int64,
) *AdminHandler {
	return &AdminHandler{
		render:         render,
		catalog:        catalog,
		promotions:     promotions,
		settings:       settings,
		users:          users,
		storefront:     storefront,
		bucket:         bucket,
		maxUploadBytes: maxUploadBytes,
	}
}

func (h *AdminHandler) baseData(r *http.Request, title string) other.BasePageData {
	data := helpers.GetBaseData(r, title)
	data.IsAdminPage = true
	return data
}

// formFailure turns a service error into the notification and the
// per-field messages shown when a form is re-rendered.
func formFailure(base *other.BasePageData, err error) map[string]string {
	helpers.SetMessage(base, helpers.StatusError, services.UserMessage(err))
	var verr *services.ValidationError
	if errors.As(err, &verr) {
		return verr.Fields
	}
	return map[string]string{}
}

// parseForm accepts both urlencoded and multipart bodies.
func (h *AdminHandler) parseForm(r *http.Request) error {
	err := r.ParseMultipartForm(h.maxUploadBytes + 1<<20)
	if err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return err
	}
	return nil
}

// uploadImage stores the file posted in field, if any, and returns its
// public URL. An empty URL with a nil error means no file was sent.
func (h *AdminHandler) uploadImage(r *http.Request, field, prefix string) (string, error) {
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return "", nil
	}
	if err != nil {
		return "", services.NewValidationError(field, "No se pudo leer el archivo.")
	}
	defer file.Close()

	upload, err := storage.PrepareUpload(header.Filename, header.Header.Get("Content-Type"), header.Size, h.maxUploadBytes, prefix)
	if err != nil {
		zap.S().Infow("uploadImage: rejected upload", "field", field, "filename", header.Filename, "error", err)
		switch {
		case errors.Is(err, storage.ErrFileTooLarge):
			return "", services.NewValidationError(field, fmt.Sprintf("La imagen supera el máximo de %d MB.", h.maxUploadBytes>>20))
		default:
			return "", services.NewValidationError(field, "Solo se admiten imágenes JPG, PNG o GIF.")
		}
	}

	name, err := h.bucket.Upload(r.Context(), upload, file)
	if err != nil {
		zap.S().Errorw("uploadImage: upload failed", "field", field, "object", upload.ObjectName, "error", err)
		return "", services.NewValidationError(field, "No se pudo subir la imagen. Inténtalo de nuevo.")
	}
	return h.bucket.PublicURL(name), nil
}

func (h *AdminHandler) notFound(w http.ResponseWriter, r *http.Request, target, message string) {
	helpers.RedirectWithMessage(w, r, target, helpers.StatusError, message)
}
