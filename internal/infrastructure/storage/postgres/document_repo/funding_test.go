package document_repo

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"barinalp/internal/domain"
	"barinalp/internal/domain/funding"
)

func TestFundingRepo_Columns(t *testing.T) {
	repo := NewFundingRepo(nil)

	assert.Equal(t, []string{
		"id", "version", "created_at", "updated_at",
		"technician_id", "kind", "amount", "date", "note", "created_by",
	}, repo.cols)
}

func TestFundingRepo_FilterQuery(t *testing.T) {
	repo := NewFundingRepo(nil)

	tests := []struct {
		name      string
		filter    funding.ListFilter
		wantWhere string
		wantArgs  []any
	}{
		{
			name:      "no filter",
			filter:    funding.ListFilter{},
			wantWhere: "",
		},
		{
			name:      "technician and kind",
			filter:    funding.ListFilter{TechnicianID: "tech-1", Kind: funding.KindBank},
			wantWhere: "WHERE technician_id = $1 AND kind = $2",
			wantArgs:  []any{"tech-1", funding.KindBank},
		},
		{
			name:      "search escapes wildcards",
			filter:    funding.ListFilter{ListFilter: domain.ListFilter{Search: "100%"}},
			wantWhere: "WHERE note ILIKE $1",
			wantArgs:  []any{`%100\%%`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args, err := repo.filterQuery(tt.filter).ToSql()
			require.NoError(t, err)

			_, where, _ := strings.Cut(sql, " FROM funding_transactions")
			assert.Equal(t, tt.wantWhere, strings.TrimSpace(where))
			if tt.wantArgs == nil {
				assert.Empty(t, args)
				return
			}
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}
