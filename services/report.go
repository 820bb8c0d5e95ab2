package services

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"time"

	"EmoTrackGo/models"

	"github.com/jung-kurt/gofpdf"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ReportInput 报告渲染的全部输入
// Summary 来自会话里由前端保存的仪表盘快照，与 Logs 的时间窗口可能不一致，
// 这是有意保留的行为：摘要表反映用户最后看到的仪表盘，时间线反映最新查询
type ReportInput struct {
	User           *models.User
	Logs           []models.EmotionLog
	Goal           *models.WeeklyGoal
	Recommendation string
	Summary        []models.SummaryItem
}

// 报告配色，沿用前端仪表盘的主题色
var pieColors = []string{"ff6b6b", "feca57", "54a0ff", "5f27cd", "1dd1a1", "ff9ff3"}

// GenerateEmotionReportPDF 渲染情绪报告PDF并返回字节流
func GenerateEmotionReportPDF(input ReportInput) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(14, 14, 14)
	pdf.SetAutoPageBreak(true, 14)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	// 标题
	pdf.SetFont("Helvetica", "B", 26)
	pdf.SetTextColor(248, 23, 11)
	pdf.CellFormat(0, 12, "Emotion Detection Report", "", 1, "C", false, 0, "")

	pdf.SetDrawColor(255, 158, 205)
	pdf.SetLineWidth(0.4)
	y := pdf.GetY() + 3
	pdf.Line(14, y, 196, y)
	pdf.SetY(y + 6)

	// 元信息
	setNormalStyle(pdf)
	pdf.CellFormat(0, 6, fmt.Sprintf("User: %s", input.User.Username), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Generated: %s UTC",
		time.Now().UTC().Format("2006-01-02 15:04:05")), "", 1, "L", false, 0, "")

	// 情绪汇总（仪表盘快照）
	sectionHeader(pdf, "Emotion Summary")
	if len(input.Summary) == 0 {
		setNormalStyle(pdf)
		pdf.CellFormat(0, 6, "No dashboard summary available.", "", 1, "L", false, 0, "")
	} else {
		renderSummaryTable(pdf, input.Summary)
		renderSummaryPie(pdf, input.Summary)
	}

	// 周目标
	sectionHeader(pdf, "Your Current Goal")
	setNormalStyle(pdf)
	if input.Goal != nil {
		pdf.CellFormat(0, 6, fmt.Sprintf("Target Emotion: %s",
			strings.ToLower(input.Goal.TargetEmotion)), "", 1, "L", false, 0, "")
	} else {
		pdf.CellFormat(0, 6, "No weekly goal set.", "", 1, "L", false, 0, "")
	}

	// 建议
	sectionHeader(pdf, "Personalized Recommendation")
	setNormalStyle(pdf)
	if input.Recommendation != "" {
		pdf.MultiCell(0, 6, tr(input.Recommendation), "", "L", false)
	} else {
		pdf.CellFormat(0, 6, "Not enough data for a recommendation.", "", 1, "L", false, 0, "")
	}

	// 最近情绪时间线
	sectionHeader(pdf, "Recent Emotion Timeline")
	if len(input.Logs) == 0 {
		setNormalStyle(pdf)
		pdf.CellFormat(0, 6, "No timeline available.", "", 1, "L", false, 0, "")
	} else {
		renderTimelineTable(pdf, input.Logs)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("PDF生成失败: %w", err)
	}
	return buf.Bytes(), nil
}

func sectionHeader(pdf *gofpdf.Fpdf, title string) {
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "B", 17)
	pdf.SetTextColor(194, 24, 91)
	pdf.CellFormat(0, 9, title, "", 1, "L", false, 0, "")
	pdf.Ln(1)
}

func setNormalStyle(pdf *gofpdf.Fpdf) {
	pdf.SetFont("Helvetica", "", 11)
	pdf.SetTextColor(74, 74, 74)
}

func renderSummaryTable(pdf *gofpdf.Fpdf, summary []models.SummaryItem) {
	pdf.SetDrawColor(248, 196, 228)
	pdf.SetLineWidth(0.2)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetFillColor(255, 119, 201)
	pdf.SetTextColor(255, 255, 255)
	pdf.CellFormat(56, 8, "Emotion", "1", 0, "C", true, 0, "")
	pdf.CellFormat(25, 8, "Count", "1", 0, "C", true, 0, "")
	pdf.CellFormat(25, 8, "Percentage", "1", 1, "C", true, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	pdf.SetFillColor(255, 230, 243)
	pdf.SetTextColor(74, 74, 74)
	for _, item := range summary {
		pdf.CellFormat(56, 8, capitalize(item.Emotion), "1", 0, "C", true, 0, "")
		pdf.CellFormat(25, 8, fmt.Sprintf("%d", item.Count), "1", 0, "C", true, 0, "")
		pdf.CellFormat(25, 8, fmt.Sprintf("%.1f%%", item.Percentage), "1", 1, "C", true, 0, "")
	}
}

func renderSummaryPie(pdf *gofpdf.Fpdf, summary []models.SummaryItem) {
	values := make([]chart.Value, 0, len(summary))
	for i, item := range summary {
		if item.Count <= 0 {
			continue
		}
		values = append(values, chart.Value{
			Value: float64(item.Count),
			Label: capitalize(item.Emotion),
			Style: chart.Style{
				FillColor: drawing.ColorFromHex(pieColors[i%len(pieColors)]),
			},
		})
	}
	if len(values) == 0 {
		return
	}

	pie := chart.PieChart{
		Title:  "Emotion Distribution (Dashboard Summary)",
		Width:  400,
		Height: 400,
		Values: values,
	}

	var buf bytes.Buffer
	if err := pie.Render(chart.PNG, &buf); err != nil {
		// 饼图失败不中断报告，只少一张图
		return
	}

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("summary_pie", opts, &buf)
	pdf.ImageOptions("summary_pie", 65, pdf.GetY()+4, 80, 80, true, opts, 0, "")
	pdf.Ln(4)
}

func renderTimelineTable(pdf *gofpdf.Fpdf, logs []models.EmotionLog) {
	sorted := make([]models.EmotionLog, len(logs))
	copy(sorted, logs)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.After(sorted[j].Timestamp)
	})
	if len(sorted) > 20 {
		sorted = sorted[:20]
	}

	pdf.SetDrawColor(243, 207, 232)
	pdf.SetLineWidth(0.2)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetFillColor(6, 2, 4)
	pdf.SetTextColor(255, 255, 255)
	pdf.CellFormat(38, 8, "Timestamp", "1", 0, "C", true, 0, "")
	pdf.CellFormat(33, 8, "Emotion", "1", 0, "C", true, 0, "")
	pdf.CellFormat(33, 8, "Confidence", "1", 1, "C", true, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	pdf.SetFillColor(255, 238, 249)
	pdf.SetTextColor(74, 74, 74)
	for _, log := range sorted {
		confidence := 0.0
		if log.Confidence != nil {
			confidence = *log.Confidence
		}
		pdf.CellFormat(38, 8, log.Timestamp.UTC().Format("15:04:05"), "1", 0, "C", true, 0, "")
		pdf.CellFormat(33, 8, capitalize(log.Emotion), "1", 0, "C", true, 0, "")
		pdf.CellFormat(33, 8, fmt.Sprintf("%.1f%%", confidence*100), "1", 1, "C", true, 0, "")
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
