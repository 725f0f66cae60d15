package service

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avtoshkola/driveschool_api/internal/repository"
)

func TestApplyLessonParamsDateOperators(t *testing.T) {
	var filter repository.LessonFilter

	err := applyLessonParams(&filter, url.Values{
		"date": {"ge:2030-01-07T08:00:00Z", "le:2030-01-07T18:00:00Z"},
	})
	require.NoError(t, err)

	require.NotNil(t, filter.DateFrom)
	assert.Equal(t, time.Date(2030, 1, 7, 8, 0, 0, 0, time.UTC), *filter.DateFrom)
	require.NotNil(t, filter.DateTo)
	assert.Equal(t, time.Date(2030, 1, 7, 18, 0, 0, 0, time.UTC), *filter.DateTo)
	assert.Nil(t, filter.DateEq)
}

func TestApplyLessonParamsPlainDateIsEquality(t *testing.T) {
	var filter repository.LessonFilter

	err := applyLessonParams(&filter, url.Values{"date": {"2030-01-07T10:00:00Z"}})
	require.NoError(t, err)

	require.NotNil(t, filter.DateEq)
	assert.Equal(t, time.Date(2030, 1, 7, 10, 0, 0, 0, time.UTC), *filter.DateEq)
}

func TestApplyLessonParamsRejectsBadValues(t *testing.T) {
	cases := map[string]url.Values{
		"bad date":        {"date": {"tomorrow"}},
		"bad operator":    {"date": {"gt:2030-01-07T10:00:00Z"}},
		"bad is_approved": {"is_approved": {"maybe"}},
		"bad order field": {"order_by": {"price"}},
		"bad order dir":   {"order_by": {"date backwards"}},
	}

	for name, params := range cases {
		t.Run(name, func(t *testing.T) {
			var filter repository.LessonFilter
			err := applyLessonParams(&filter, params)
			requireRouteError(t, err, 400, "Wrong parameters passed.")
		})
	}
}

func TestApplyLessonParamsOrderBy(t *testing.T) {
	var filter repository.LessonFilter

	err := applyLessonParams(&filter, url.Values{"order_by": {"date desc"}})
	require.NoError(t, err)
	assert.Equal(t, "date", filter.OrderBy)
	assert.True(t, filter.Desc)

	filter = repository.LessonFilter{}
	err = applyLessonParams(&filter, url.Values{"order_by": {"created_at asc"}})
	require.NoError(t, err)
	assert.Equal(t, "created_at", filter.OrderBy)
	assert.False(t, filter.Desc)
}

func TestApplyPaymentParams(t *testing.T) {
	var filter repository.PaymentFilter

	err := applyPaymentParams(&filter, url.Values{
		"date":     {"ge:2030-01-01T00:00:00Z"},
		"order_by": {"created_at desc"},
	})
	require.NoError(t, err)

	require.NotNil(t, filter.DateFrom)
	assert.True(t, filter.Desc)

	// Точное совпадение даты для платежей не поддерживается
	err = applyPaymentParams(&repository.PaymentFilter{}, url.Values{"date": {"2030-01-01T00:00:00Z"}})
	requireRouteError(t, err, 400, "Wrong parameters passed.")

	err = applyPaymentParams(&repository.PaymentFilter{}, url.Values{"order_by": {"date"}})
	requireRouteError(t, err, 400, "Wrong parameters passed.")
}
