package cmd

import (
	"github.com/gosuri/uitable"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorBold   = "\033[1m"
	colorDim    = "\033[2m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
)

func statusIcon(status string) string {
	switch status {
	case "APPROVED":
		return colorGreen + "✓" + colorReset
	case "REJECTED":
		return colorRed + "✗" + colorReset
	case "PENDING":
		return colorYellow + "◯" + colorReset
	default:
		return "•"
	}
}

func colorizeStatus(status string) string {
	icon := statusIcon(status)
	switch status {
	case "APPROVED":
		return icon + " " + colorGreen + status + colorReset
	case "REJECTED":
		return icon + " " + colorRed + status + colorReset
	case "PENDING":
		return icon + " " + colorYellow + status + colorReset
	default:
		return status
	}
}

func requestTypeLabel(t string) string {
	switch t {
	case "REGISTER_VEHICLE":
		return "Vehicle Registration"
	case "ADD_JOB":
		return "Job Addition"
	default:
		return t
	}
}

func newTable() *uitable.Table {
	table := uitable.New()
	table.MaxColWidth = 50
	table.Wrap = true
	return table
}
