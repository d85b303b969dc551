package http

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"golang.org/x/crypto/blake2b"

	"github.com/example/staff-calendar/internal/application"
	"github.com/example/staff-calendar/internal/calendar"
	"github.com/example/staff-calendar/internal/logging"
)

var (
	errBadRequestBody = errors.New("無効なリクエスト形式です。")
	errInvalidID      = errors.New("無効なレコード ID です。")
	errInvalidWeek    = errors.New("週の指定が不正です。MM/DD/YYYY 形式で指定してください。")
)

const timestampHint = `"01/02/2006 3:04PM"`

type responder struct {
	logger *slog.Logger
}

func newResponder(logger *slog.Logger) responder {
	if logger == nil {
		logger = slog.Default()
	}
	return responder{logger: logger}
}

func (r responder) writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	if w == nil {
		return
	}

	if status == http.StatusNoContent || payload == nil {
		w.WriteHeader(status)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		r.loggerFor(ctx).ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

// writeCachedJSON answers 200 with an ETag derived from the encoded body, or
// 304 when the request already holds that representation.
func (r responder) writeCachedJSON(ctx context.Context, w http.ResponseWriter, req *http.Request, payload any) {
	var body bytes.Buffer
	if err := json.NewEncoder(&body).Encode(payload); err != nil {
		r.writeError(ctx, w, http.StatusInternalServerError, err)
		return
	}

	etag := entityTag(body.Bytes())
	w.Header().Set("ETag", etag)
	if matchesETag(req.Header.Get("If-None-Match"), etag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body.Bytes()); err != nil {
		r.loggerFor(ctx).ErrorContext(ctx, "failed to write response", "error", err)
	}
}

func (r responder) writeError(ctx context.Context, w http.ResponseWriter, status int, err error) {
	message := localizedStatusMessage(status)
	if err != nil {
		if status < http.StatusInternalServerError {
			if msg := strings.TrimSpace(err.Error()); msg != "" {
				message = msg
			}
		}
		r.loggerFor(ctx).ErrorContext(ctx, "request failed", "status", status, "error", err)
	}

	r.writeJSON(ctx, w, status, errorResponse{Message: message})
}

func (r responder) handleServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	if err == nil {
		r.writeError(ctx, w, http.StatusInternalServerError, errors.New("unknown error"))
		return
	}

	switch {
	case errors.Is(err, application.ErrNotFound):
		r.writeJSON(ctx, w, http.StatusNotFound, errorResponse{Message: "指定されたリソースが見つかりません。"})
	case errors.Is(err, application.ErrAlreadyExists):
		r.writeJSON(ctx, w, http.StatusConflict, errorResponse{
			ErrorCode: "ALREADY_EXISTS",
			Message:   "同じ名前のリソースが既に存在します。",
		})
	case errors.Is(err, calendar.ErrInvalidTimestamp),
		errors.Is(err, calendar.ErrUnknownRecordKind),
		errors.Is(err, calendar.ErrRecordKindMismatch):
		r.loggerFor(ctx).ErrorContext(ctx, "stored record rejected by layout", "error", err)
		r.writeJSON(ctx, w, http.StatusInternalServerError, errorResponse{
			ErrorCode: "INVALID_RECORD",
			Message:   "保存済みのレコードに不正なデータが含まれています。",
		})
	default:
		var vErr *application.ValidationError
		if errors.As(err, &vErr) {
			details := localizeValidationErrors(vErr)
			r.writeJSON(ctx, w, http.StatusUnprocessableEntity, errorResponse{
				Message: "入力内容に誤りがあります。",
				Errors:  details,
			})
			return
		}

		r.loggerFor(ctx).ErrorContext(ctx, "unexpected service error", "error", err)
		r.writeJSON(ctx, w, http.StatusInternalServerError, errorResponse{Message: "サーバー内部でエラーが発生しました。"})
	}
}

func (r responder) loggerFor(ctx context.Context) *slog.Logger {
	if logger := logging.FromContext(ctx); logger != nil {
		return logger
	}
	return r.logger
}

func entityTag(body []byte) string {
	sum := blake2b.Sum256(body)
	return `"` + hex.EncodeToString(sum[:16]) + `"`
}

func matchesETag(header, etag string) bool {
	header = strings.TrimSpace(header)
	if header == "" {
		return false
	}
	if header == "*" {
		return true
	}
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimPrefix(strings.TrimSpace(candidate), "W/")
		if candidate == etag {
			return true
		}
	}
	return false
}

func localizedStatusMessage(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "リクエスト内容が正しくありません。"
	case http.StatusNotFound:
		return "指定されたリソースが見つかりません。"
	case http.StatusConflict:
		return "要求はリソースの現在の状態と競合しています。"
	case http.StatusUnprocessableEntity:
		return "入力内容に誤りがあります。"
	case http.StatusServiceUnavailable:
		return "サービスを利用できません。"
	default:
		return "サーバー内部でエラーが発生しました。"
	}
}

func localizeValidationErrors(vErr *application.ValidationError) map[string]string {
	if vErr == nil || len(vErr.FieldErrors) == 0 {
		return nil
	}

	translated := make(map[string]string, len(vErr.FieldErrors))
	for field, msg := range vErr.FieldErrors {
		translated[field] = translateValidationMessage(msg)
	}
	return translated
}

var fieldLabels = map[string]string{
	"create":  "作成日時",
	"start":   "開始日時",
	"end":     "終了日時",
	"checkin": "チェックイン日時",
}

func translateValidationMessage(message string) string {
	switch message {
	case "name is required":
		return "名前は必須です。"
	case "employee is required":
		return "担当者は必須です。"
	case "first or last name is required":
		return "姓または名のいずれかを指定してください。"
	case "title is required":
		return "タイトルは必須です。"
	case "end must not be before start":
		return "終了日時は開始日時以降である必要があります。"
	case "at least one employee is required":
		return "少なくとも 1 名の参加者を指定してください。"
	case "patient is required":
		return "患者名は必須です。"
	case "record is required":
		return "レコード種別は必須です。"
	case "form type is required":
		return "フォーム種別は必須です。"
	case "record does not match its group type":
		return "レコードの内容が種別と一致しません。"
	}

	for field, label := range fieldLabels {
		switch {
		case message == field+" is required":
			return label + "は必須です。"
		case strings.HasPrefix(message, field+" must look like"):
			return label + "は " + timestampHint + " の形式で指定してください。"
		}
	}
	return message
}

type errorResponse struct {
	ErrorCode string            `json:"error_code,omitempty"`
	Message   string            `json:"message"`
	Errors    map[string]string `json:"errors,omitempty"`
}
