// Package export renders payment schedules as an Excel workbook.
package export

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"scooter-rent-backend/internal/domain"
)

const (
	summarySheet    = "Summary"
	maxSheetNameLen = 31
)

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

type clientGroup struct {
	client  domain.Client
	entries []domain.DashboardEntry
}

// Generate builds a workbook with a summary sheet and one sheet per client.
// entries must carry their client and scooter.
func (g *Generator) Generate(today time.Time, entries []domain.DashboardEntry) ([]byte, error) {
	file := excelize.NewFile()
	defer file.Close()

	if err := file.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, err
	}

	groups := groupByClient(entries)
	g.writeSummary(file, today, groups)

	used := map[string]struct{}{summarySheet: {}}
	for _, grp := range groups {
		name := buildSheetName(grp.client, used)
		used[name] = struct{}{}
		if _, err := file.NewSheet(name); err != nil {
			return nil, err
		}
		g.writeClient(file, name, grp)
	}

	file.SetActiveSheet(0)
	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func groupByClient(entries []domain.DashboardEntry) []clientGroup {
	byID := map[int32]*clientGroup{}
	var order []int32
	for _, e := range entries {
		grp, ok := byID[e.Client.ID]
		if !ok {
			grp = &clientGroup{client: e.Client}
			byID[e.Client.ID] = grp
			order = append(order, e.Client.ID)
		}
		grp.entries = append(grp.entries, e)
	}

	groups := make([]clientGroup, 0, len(order))
	for _, id := range order {
		grp := byID[id]
		sort.SliceStable(grp.entries, func(i, j int) bool {
			a, b := grp.entries[i], grp.entries[j]
			if a.ScooterID != b.ScooterID {
				return a.ScooterID < b.ScooterID
			}
			return a.DueDate.Before(b.DueDate)
		})
		groups = append(groups, *grp)
	}
	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].client.FullName != groups[j].client.FullName {
			return groups[i].client.FullName < groups[j].client.FullName
		}
		return groups[i].client.ID < groups[j].client.ID
	})
	return groups
}

func (g *Generator) writeSummary(file *excelize.File, today time.Time, groups []clientGroup) {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(summarySheet, cell, value)
	}

	set("A1", "Generated for")
	set("B1", formatDate(today))

	tableRow := 3
	headers := []string{"Client", "Phone", "Scooters", "Unpaid total", "Overdue", "Postponed"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, tableRow)
		set(cell, header)
	}

	for i, grp := range groups {
		row := tableRow + 1 + i
		scooters := map[int32]struct{}{}
		var unpaid int32
		overdue, postponed := 0, 0
		for _, e := range grp.entries {
			scooters[e.ScooterID] = struct{}{}
			if !e.IsPaid {
				unpaid += e.Amount
			}
			switch e.Status {
			case domain.StatusOverdue:
				overdue++
			case domain.StatusPostponed:
				postponed++
			}
		}
		set(fmt.Sprintf("A%d", row), grp.client.FullName)
		set(fmt.Sprintf("B%d", row), grp.client.Phone)
		set(fmt.Sprintf("C%d", row), len(scooters))
		set(fmt.Sprintf("D%d", row), unpaid)
		set(fmt.Sprintf("E%d", row), overdue)
		set(fmt.Sprintf("F%d", row), postponed)
	}

	_ = file.SetColWidth(summarySheet, "A", "A", 32)
	_ = file.SetColWidth(summarySheet, "B", "B", 18)
	_ = file.SetColWidth(summarySheet, "C", "F", 14)
}

func (g *Generator) writeClient(file *excelize.File, sheet string, grp clientGroup) {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	set("A1", "Client")
	set("B1", grp.client.FullName)
	set("A2", "Telegram")
	set("B2", grp.client.TelegramID)

	tableRow := 4
	headers := []string{"Scooter", "VIN", "Tariff", "Due date", "Amount", "Status", "Paid at", "Postponement"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, tableRow)
		set(cell, header)
	}

	for i, e := range grp.entries {
		row := tableRow + 1 + i
		set(fmt.Sprintf("A%d", row), e.Scooter.Model)
		set(fmt.Sprintf("B%d", row), e.Scooter.VIN)
		set(fmt.Sprintf("C%d", row), string(e.Scooter.Tariff))
		set(fmt.Sprintf("D%d", row), formatDate(e.DueDate))
		set(fmt.Sprintf("E%d", row), e.Amount)
		set(fmt.Sprintf("F%d", row), string(e.Status))
		if e.PaidAt != nil {
			set(fmt.Sprintf("G%d", row), e.PaidAt.Format("2006-01-02 15:04"))
		}
		set(fmt.Sprintf("H%d", row), postponementNote(e))
	}

	_ = file.SetColWidth(sheet, "A", "A", 20)
	_ = file.SetColWidth(sheet, "B", "B", 22)
	_ = file.SetColWidth(sheet, "C", "F", 14)
	_ = file.SetColWidth(sheet, "G", "G", 18)
	_ = file.SetColWidth(sheet, "H", "H", 36)
}

func postponementNote(e domain.DashboardEntry) string {
	if e.Postponement == nil {
		return ""
	}
	p := e.Postponement
	switch e.Role {
	case domain.PostponedOriginal:
		return fmt.Sprintf("moved to %s", formatDate(p.RescheduledDate))
	case domain.PostponedRescheduled:
		return fmt.Sprintf("from %s, fine %d", formatDate(p.OriginalDate), p.FineAmount)
	}
	return ""
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(domain.DateLayout)
}

func buildSheetName(client domain.Client, used map[string]struct{}) string {
	base := sanitizeSheetName(client.FullName)
	if base == "" {
		base = fmt.Sprintf("Client %d", client.ID)
	}
	base = truncateRunes(base, maxSheetNameLen)

	candidate := base
	counter := 2
	for {
		if _, exists := used[candidate]; !exists {
			return candidate
		}
		suffix := fmt.Sprintf("-%d", counter)
		candidate = truncateRunes(base, maxSheetNameLen-len(suffix)) + suffix
		counter++
	}
}

func sanitizeSheetName(value string) string {
	replacer := strings.NewReplacer(
		"[", "-",
		"]", "-",
		":", "-",
		"*", "-",
		"?", "-",
		"/", "-",
		"\\", "-",
	)
	return strings.TrimSpace(replacer.Replace(strings.TrimSpace(value)))
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
