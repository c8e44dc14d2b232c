// Package businessflow contains the core business logic and use cases for purchase request tracking
package businessflow

import (
	"bytes"
	"context"
	"encoding/csv"
	"strconv"
	"time"

	"github.com/fieldops/prtrack/models"
	"github.com/xuri/excelize/v2"
)

// exportHeader lists the export columns shared by both formats.
var exportHeader = []string{
	"PR ID",
	"Code",
	"Location",
	"Department",
	"Property Reference",
	"Estimated Amount",
	"Requester",
	"Status",
	"Date Requested",
}

// exportRecord renders one purchase request as export cell values.
// The PR ID column carries the counter-assigned sequence number.
func exportRecord(pr *models.PurchaseRequest) []string {
	return []string{
		strconv.FormatInt(pr.SequenceNumber, 10),
		pr.Code,
		pr.Location,
		pr.Department,
		pr.PropertyReference,
		strconv.FormatFloat(pr.EstimatedAmount, 'f', 2, 64),
		pr.Requester,
		pr.Status,
		pr.DateRequested.UTC().Format(time.RFC3339),
	}
}

// ExportExcel renders all purchase requests, newest first, as an xlsx workbook
func (f *PurchaseRequestFlowImpl) ExportExcel(ctx context.Context) (string, []byte, error) {
	rows, err := f.prRepo.ListNewestFirst(ctx, models.PurchaseRequestFilter{})
	if err != nil {
		return "", nil, NewBusinessError("STORAGE_UNAVAILABLE", "Failed to fetch purchase requests", err)
	}

	xl := excelize.NewFile()
	defer func() { _ = xl.Close() }()

	sheet := "Purchase Requests"
	xl.SetSheetName(xl.GetSheetName(0), sheet)

	_ = xl.SetSheetRow(sheet, "A1", &exportHeader)

	for ri, pr := range rows {
		record := exportRecord(pr)
		cellRef, _ := excelize.CoordinatesToCellName(1, ri+2)
		_ = xl.SetSheetRow(sheet, cellRef, &record)
	}

	buf, err := xl.WriteToBuffer()
	if err != nil {
		return "", nil, NewBusinessError("EXCEL_WRITE_ERROR", "Failed to write Excel file", err)
	}

	return "purchase_requests.xlsx", buf.Bytes(), nil
}

// ExportCSV renders all purchase requests, newest first, as CSV
func (f *PurchaseRequestFlowImpl) ExportCSV(ctx context.Context) (string, []byte, error) {
	rows, err := f.prRepo.ListNewestFirst(ctx, models.PurchaseRequestFilter{})
	if err != nil {
		return "", nil, NewBusinessError("STORAGE_UNAVAILABLE", "Failed to fetch purchase requests", err)
	}

	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	alreadyFlushed := false
	defer func() {
		if !alreadyFlushed {
			w.Flush()
			alreadyFlushed = true
		}
	}()

	if err := w.Write(exportHeader); err != nil {
		return "", nil, NewBusinessError("CSV_WRITE_ERROR", "Failed to write CSV header", err)
	}

	for _, pr := range rows {
		if err := w.Write(exportRecord(pr)); err != nil {
			return "", nil, NewBusinessError("CSV_WRITE_ERROR", "Failed to write CSV row", err)
		}
	}

	w.Flush()
	alreadyFlushed = true
	if err := w.Error(); err != nil {
		return "", nil, NewBusinessError("CSV_WRITE_ERROR", "Failed to flush CSV", err)
	}

	return "purchase_requests.csv", buf.Bytes(), nil
}
