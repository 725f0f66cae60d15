package service

import (
	"net/url"
	"strings"
	"time"

	"github.com/avtoshkola/driveschool_api/internal/model"
	"github.com/avtoshkola/driveschool_api/internal/repository"
)

// Разбор query-параметров фильтрации списков.
// Дата задаётся с оператором: date=ge:<дата>, date=le:<дата> или date=<дата>.
// Любое некорректное значение - единая ошибка "Wrong parameters passed."

var errWrongParams = BadRequest("Wrong parameters passed.")

// applyLessonParams применяет query-параметры к фильтру уроков
func applyLessonParams(filter *repository.LessonFilter, params url.Values) error {
	for _, raw := range params["date"] {
		op, date, err := parseDateParam(raw)
		if err != nil {
			return err
		}
		switch op {
		case "ge":
			filter.DateFrom = &date
		case "le":
			filter.DateTo = &date
		default:
			filter.DateEq = &date
		}
	}

	if raw := params.Get("is_approved"); raw != "" {
		switch raw {
		case "true":
			approved := true
			filter.IsApproved = &approved
		case "false":
			approved := false
			filter.IsApproved = &approved
		default:
			return errWrongParams
		}
	}

	if raw := params.Get("order_by"); raw != "" {
		field, desc, err := parseOrderBy(raw)
		if err != nil {
			return err
		}
		filter.OrderBy = field
		filter.Desc = desc
	}

	return nil
}

// applyPaymentParams применяет query-параметры к фильтру платежей
func applyPaymentParams(filter *repository.PaymentFilter, params url.Values) error {
	for _, raw := range params["date"] {
		op, date, err := parseDateParam(raw)
		if err != nil {
			return err
		}
		switch op {
		case "ge":
			filter.DateFrom = &date
		case "le":
			filter.DateTo = &date
		default:
			return errWrongParams
		}
	}

	if raw := params.Get("order_by"); raw != "" {
		field, desc, err := parseOrderBy(raw)
		if err != nil || field != "created_at" {
			return errWrongParams
		}
		filter.Desc = desc
	}

	return nil
}

func parseDateParam(raw string) (string, time.Time, error) {
	op := "eq"
	value := raw
	if len(raw) > 3 && raw[2] == ':' {
		op = raw[:2]
		value = raw[3:]
		if op != "ge" && op != "le" && op != "eq" {
			return "", time.Time{}, errWrongParams
		}
	}

	date, err := time.Parse(model.DateFormat, value)
	if err != nil {
		return "", time.Time{}, errWrongParams
	}

	return op, date.UTC(), nil
}

func parseOrderBy(raw string) (string, bool, error) {
	parts := strings.Fields(raw)
	if len(parts) == 0 || len(parts) > 2 {
		return "", false, errWrongParams
	}

	field := parts[0]
	if field != "date" && field != "created_at" {
		return "", false, errWrongParams
	}

	desc := false
	if len(parts) == 2 {
		switch parts[1] {
		case "desc":
			desc = true
		case "asc":
		default:
			return "", false, errWrongParams
		}
	}

	return field, desc, nil
}
