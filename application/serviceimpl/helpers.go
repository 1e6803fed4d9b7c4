package serviceimpl

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"project-tracker/domain/dto"
	"project-tracker/domain/ports"
	"project-tracker/domain/repositories"
	"project-tracker/pkg/apperror"
	"project-tracker/pkg/logger"
	"project-tracker/pkg/utils"
)

// validateRequest รัน validator ก่อนแตะ storage ทุกครั้ง
func validateRequest(req interface{}) error {
	if err := utils.ValidateStruct(req); err != nil {
		return apperror.ValidationFields("invalid input", utils.GetValidationErrors(err))
	}
	return nil
}

// parseDueDate ค่าว่างได้ nil
func parseDueDate(value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(dto.DateLayout, value)
	if err != nil {
		return nil, apperror.ValidationFields("invalid due date", map[string]string{
			"dueDate": "must be a date in format YYYY-MM-DD",
		})
	}
	return &t, nil
}

// isAbsoluteURL ต้องมีทั้ง scheme และ host
func isAbsoluteURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return u.Scheme != "" && u.Host != ""
}

func invalidURL(field string) error {
	return apperror.ValidationFields("invalid url", map[string]string{
		field: "must be an absolute URL with scheme and host",
	})
}

// cleanList ตัดช่องว่างและค่าว่างออก ลำดับเดิมคงไว้
func cleanList(values []string) []string {
	result := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v != "" {
			result = append(result, v)
		}
	}
	return result
}

// lookupErr แยก not found ออกจาก storage error
func lookupErr(ctx context.Context, entity string, err error) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return apperror.NotFound(entity)
	}
	return storageErr(ctx, "failed to load "+entity, err)
}

func storageErr(ctx context.Context, op string, err error) error {
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		return appErr
	}
	logger.ErrorContext(ctx, op, "error", err)
	return apperror.Storage(op, err)
}

// publish ส่ง event หลัง commit แล้ว ถ้าล้มแค่ log ไว้
func publish(ctx context.Context, publisher ports.EventPublisherPort, event *ports.ActivityEvent) {
	if publisher == nil {
		return
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}
	if err := publisher.Publish(ctx, event); err != nil {
		logger.WarnContext(ctx, "Failed to publish activity event", "type", event.Type, "error", err)
	}
}
