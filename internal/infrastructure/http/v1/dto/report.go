package dto

import (
	"barinalp/internal/core/types"
	"barinalp/internal/domain/costobject"
	"barinalp/internal/domain/invoice"
)

// ObjectReportRequest holds the report period, both ends optional.
type ObjectReportRequest struct {
	DateFrom string `form:"dateFrom"`
	DateTo   string `form:"dateTo"`
}

// ToFilter converts the period into an invoice.ListFilter.
func (r ObjectReportRequest) ToFilter() (invoice.ListFilter, error) {
	var (
		filter invoice.ListFilter
		err    error
	)
	if filter.DateFrom, err = parseDateParam("dateFrom", r.DateFrom); err != nil {
		return invoice.ListFilter{}, err
	}
	if filter.DateTo, err = parseDateParam("dateTo", r.DateTo); err != nil {
		return invoice.ListFilter{}, err
	}
	return filter, nil
}

// ObjectReportResponse is the expense report of one cost object.
type ObjectReportResponse struct {
	ObjectID      string                `json:"objectId"`
	ObjectName    string                `json:"objectName"`
	Status        costobject.Status     `json:"status"`
	TotalExpenses types.Money           `json:"totalExpenses"`
	InvoiceCount  int                   `json:"invoiceCount"`
	LineCount     int                   `json:"lineCount"`
	ByTechnician  []invoice.ReportGroup `json:"byTechnician"`
	ByVendor      []invoice.ReportGroup `json:"byVendor"`
}

// FromObjectReport combines the object with its report.
func FromObjectReport(obj *costobject.CostObject, report *invoice.ObjectReport) ObjectReportResponse {
	return ObjectReportResponse{
		ObjectID:      obj.ID.String(),
		ObjectName:    obj.Name,
		Status:        obj.Status,
		TotalExpenses: report.TotalExpenses,
		InvoiceCount:  report.InvoiceCount,
		LineCount:     report.LineCount,
		ByTechnician:  report.ByTechnician,
		ByVendor:      report.ByVendor,
	}
}
