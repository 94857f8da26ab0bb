package handler

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/Ladybert/web-api-client/internal/model"
	"github.com/Ladybert/web-api-client/internal/repository"
	"github.com/Ladybert/web-api-client/internal/response"
	"github.com/Ladybert/web-api-client/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// imageRecord is a model pointer that carries stored images
type imageRecord[T any] interface {
	*T
	RecordID() uint
	StoredImages() *model.ImagePaths
}

// imageResource holds the CRUD steps shared by resources with images.
// entity names the metrics label, media directory and log id field.
type imageResource[T any, PT imageRecord[T]] struct {
	deps     Deps
	repo     *repository.Repository[T]
	entity   string
	noun     string
	notFound string
}

func newImageResource[T any, PT imageRecord[T]](d Deps, entity, noun, notFound string) imageResource[T, PT] {
	return imageResource[T, PT]{
		deps: d,
		repo: repository.New[T](d.DB,
			repository.WithPreload("UnitType"),
			repository.WithMetrics(d.Metrics)),
		entity:   entity,
		noun:     noun,
		notFound: notFound,
	}
}

func (r *imageResource[T, PT]) idField(id uint) zap.Field {
	return zap.Uint(r.entity+"_id", id)
}

func (r *imageResource[T, PT]) list(c echo.Context, message string) error {
	log := logger.FromContext(c)
	page := pageParam(c)
	log.Info("Listing "+r.noun+"s", zap.Int("page", page))

	result, err := r.repo.List(c.Request().Context(), page, r.deps.PageSize)
	if err != nil {
		log.Error("Failed to retrieve "+r.noun+"s", zap.Error(err))
		return response.Error(c, http.StatusInternalServerError, "Failed to retrieve "+r.noun+"s")
	}

	log.Info("Records retrieved successfully",
		zap.String("entity", r.entity),
		zap.Int("count", len(result.Items)),
		zap.Int64("total", result.Total))
	return response.JSON(c, http.StatusOK, message,
		response.NewPagination(result.Items, result.Page, result.PageSize, result.Total, response.RequestPath(c)))
}

// find resolves the :id param. When ok is false the response has been
// written and err is what the handler returns.
func (r *imageResource[T, PT]) find(c echo.Context) (record *T, ok bool, err error) {
	id, valid := parseID(c)
	if !valid {
		return nil, false, response.Error(c, http.StatusNotFound, r.notFound)
	}

	record, err = r.repo.Get(c.Request().Context(), id)
	if err != nil {
		return nil, false, r.lookupFailed(c, id, err)
	}
	return record, true, nil
}

func (r *imageResource[T, PT]) get(c echo.Context, message string) error {
	record, ok, err := r.find(c)
	if !ok {
		return err
	}
	logger.FromContext(c).Info("Record retrieved", r.idField(PT(record).RecordID()))
	return response.JSON(c, http.StatusOK, message, record)
}

// create stores files, inserts record with their paths and answers 201
func (r *imageResource[T, PT]) create(c echo.Context, record *T, files []*multipart.FileHeader, message string) error {
	log := logger.FromContext(c)
	ctx := c.Request().Context()

	images, err := r.deps.Media.Store(ctx, r.entity, files)
	if err != nil {
		log.Error("Failed to store "+r.noun+" images", zap.Error(err))
		return response.Error(c, http.StatusInternalServerError, "Failed to store images")
	}

	*PT(record).StoredImages() = images
	if err := r.repo.Create(ctx, record); err != nil {
		r.deps.Media.Remove(ctx, images)
		log.Error("Failed to create "+r.noun, zap.Error(err))
		return response.Error(c, http.StatusInternalServerError, "Failed to create "+r.noun)
	}

	id := PT(record).RecordID()
	created, err := r.repo.Get(ctx, id)
	if err != nil {
		return r.lookupFailed(c, id, err)
	}

	r.deps.Metrics.RecordOperation(r.entity, "create")
	log.Info("Record created successfully",
		r.idField(id),
		zap.Int("images", len(images)))
	return response.JSON(c, http.StatusCreated, message, created)
}

// update writes record. New files replace the stored images only once
// the row is saved; a failed save keeps the previous images.
func (r *imageResource[T, PT]) update(c echo.Context, record *T, files []*multipart.FileHeader, message string) error {
	log := logger.FromContext(c)
	ctx := c.Request().Context()
	id := PT(record).RecordID()

	images := PT(record).StoredImages()
	previous := images.Clone()
	err := r.deps.Media.Replace(ctx, r.entity, previous, files, func(paths model.ImagePaths) error {
		*images = paths
		return r.repo.Update(ctx, record)
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return r.lookupFailed(c, id, err)
		}
		log.Error("Failed to update "+r.noun,
			r.idField(id),
			zap.Error(err))
		return response.Error(c, http.StatusInternalServerError, "Failed to update "+r.noun)
	}

	updated, err := r.repo.Get(ctx, id)
	if err != nil {
		return r.lookupFailed(c, id, err)
	}

	r.deps.Metrics.RecordOperation(r.entity, "update")
	log.Info("Record updated successfully", r.idField(id))
	return response.JSON(c, http.StatusOK, message, updated)
}

// remove deletes the row, then its stored images
func (r *imageResource[T, PT]) remove(c echo.Context, message string) error {
	log := logger.FromContext(c)
	record, ok, err := r.find(c)
	if !ok {
		return err
	}

	ctx := c.Request().Context()
	id := PT(record).RecordID()
	log.Info("Attempting to delete "+r.noun, r.idField(id))

	if err := r.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return r.lookupFailed(c, id, err)
		}
		log.Error("Failed to delete "+r.noun,
			r.idField(id),
			zap.Error(err))
		return response.Error(c, http.StatusInternalServerError, "Failed to delete "+r.noun)
	}

	r.deps.Media.Remove(ctx, *PT(record).StoredImages())
	r.deps.Metrics.RecordOperation(r.entity, "delete")
	log.Info("Record deleted successfully", r.idField(id))
	return response.JSON(c, http.StatusOK, message, nil)
}

func (r *imageResource[T, PT]) lookupFailed(c echo.Context, id uint, err error) error {
	log := logger.FromContext(c)
	if errors.Is(err, repository.ErrNotFound) {
		log.Warn("Record not found", zap.String("entity", r.entity), r.idField(id))
		return response.Error(c, http.StatusNotFound, r.notFound)
	}
	log.Error("Failed to retrieve "+r.noun,
		r.idField(id),
		zap.Error(err))
	return response.Error(c, http.StatusInternalServerError, "Failed to retrieve "+r.noun)
}
