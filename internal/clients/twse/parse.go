package twse

import (
	"strings"

	"github.com/ryanchou-dev/tickerd/internal/common"
	"github.com/ryanchou-dev/tickerd/internal/models"
)

func trimCell(s string) string {
	return strings.TrimSpace(s)
}

// applyNetChange derives the signed change and changePercent from the
// MI_INDEX upDown indicator cell and the unsigned change magnitude.
// The indicator is an HTML fragment; one containing "green" marks a
// decline. Reference price is close minus the signed change.
func applyNetChange(ticker *models.Ticker, upDown, magnitude string) {
	change := common.ParseNumber(magnitude)
	if change == nil || ticker.ClosePrice == nil {
		return
	}

	netChange := *change
	if strings.Contains(upDown, "green") {
		netChange = -netChange
	}

	reference := *ticker.ClosePrice - netChange
	ticker.Change = common.Float64Ptr(netChange)
	ticker.ChangePercent = common.Float64Ptr(common.Round2(netChange / reference * 100))
}
