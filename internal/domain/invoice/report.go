package invoice

import (
	"context"
	"sort"

	"barinalp/internal/core/id"
	"barinalp/internal/core/types"
	"barinalp/internal/domain"
)

// pageSize is the batch All reads the repository in.
const pageSize = 500

// ObjectReport sums what was spent on one cost object. Only lines allocated
// to the object count, so a split invoice contributes its share.
type ObjectReport struct {
	ObjectID      id.ID         `json:"objectId"`
	TotalExpenses types.Money   `json:"totalExpenses"`
	InvoiceCount  int           `json:"invoiceCount"`
	LineCount     int           `json:"lineCount"`
	ByTechnician  []ReportGroup `json:"byTechnician"`
	ByVendor      []ReportGroup `json:"byVendor"`
}

// ReportGroup is one breakdown row: the lines under Name and their sum.
type ReportGroup struct {
	Name  string      `json:"name"`
	Count int         `json:"count"`
	Total types.Money `json:"total"`
}

// All returns every invoice matching filter, ignoring its pagination.
// Technicians only see their own.
func (s *Service) All(ctx context.Context, filter ListFilter) ([]*Invoice, error) {
	filter.ListFilter = domain.ListFilter{Search: filter.Search, Limit: pageSize}

	out := make([]*Invoice, 0)
	for {
		page, err := s.List(ctx, filter)
		if err != nil {
			return nil, err
		}
		out = append(out, page.Items...)
		if len(page.Items) < pageSize || int64(len(out)) >= page.TotalCount {
			return out, nil
		}
		filter.Offset += pageSize
	}
}

// ObjectReport builds the expense report of objID over the invoices matching
// filter; filter.CostObjectID is overridden.
func (s *Service) ObjectReport(ctx context.Context, objID id.ID, filter ListFilter) (*ObjectReport, error) {
	filter.CostObjectID = &objID

	invoices, err := s.All(ctx, filter)
	if err != nil {
		return nil, err
	}

	report := &ObjectReport{
		ObjectID:      objID,
		TotalExpenses: types.Zero(),
	}
	byTechnician := newGrouping()
	byVendor := newGrouping()

	for _, inv := range invoices {
		lines, err := s.repo.GetLines(ctx, inv.ID)
		if err != nil {
			return nil, err
		}
		inv.Lines = lines

		share := inv.AllocatedTo(objID)
		count := 0
		for _, line := range lines {
			if line.CostObjectID == objID {
				count++
			}
		}
		if count == 0 {
			continue
		}

		report.InvoiceCount++
		report.LineCount += count
		report.TotalExpenses = report.TotalExpenses.Add(share)
		byTechnician.add(inv.TechnicianID, count, share)
		byVendor.add(inv.Vendor, count, share)
	}

	report.ByTechnician = byTechnician.rows()
	report.ByVendor = byVendor.rows()
	return report, nil
}

type grouping map[string]*ReportGroup

func newGrouping() grouping {
	return make(grouping)
}

func (g grouping) add(name string, count int, total types.Money) {
	row, ok := g[name]
	if !ok {
		row = &ReportGroup{Name: name, Total: types.Zero()}
		g[name] = row
	}
	row.Count += count
	row.Total = row.Total.Add(total)
}

// rows returns the groups largest total first, then by name.
func (g grouping) rows() []ReportGroup {
	out := make([]ReportGroup, 0, len(g))
	for _, row := range g {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Total.Cmp(out[j].Total); c != 0 {
			return c > 0
		}
		return out[i].Name < out[j].Name
	})
	return out
}
