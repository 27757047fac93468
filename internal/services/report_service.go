package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/phpdave11/gofpdf"
)

// BootcampReportData is everything the summary sheet needs.
type BootcampReportData struct {
	ID            string
	Name          string
	Description   string
	City          string
	Careers       []string
	Housing       bool
	JobAssistance bool
	AverageRating float64
	AverageCost   float64
	Courses       []CourseReportLine
	ReviewCount   int
}

type CourseReportLine struct {
	Title        string
	Weeks        int
	Tuition      float64
	MinimumSkill string
}

// ReportService renders a one-page PDF summary of a bootcamp. The Loader
// assembles the data; tests inject their own.
type ReportService struct {
	Loader func(ctx context.Context, bootcampID string) (BootcampReportData, error)
}

// NewBootcampReportLoader assembles report data from the live stores.
func NewBootcampReportLoader(bootcamps BootcampStore, courses CourseStore, reviews ReviewStore) func(ctx context.Context, bootcampID string) (BootcampReportData, error) {
	return func(ctx context.Context, bootcampID string) (BootcampReportData, error) {
		b, err := bootcamps.GetByID(ctx, bootcampID)
		if err != nil {
			return BootcampReportData{}, err
		}
		cs, err := courses.ListByBootcamp(ctx, b.ID)
		if err != nil {
			return BootcampReportData{}, err
		}
		rs, err := reviews.ListByBootcamp(ctx, b.ID)
		if err != nil {
			return BootcampReportData{}, err
		}

		data := BootcampReportData{
			ID:            b.ID.Hex(),
			Name:          b.Name,
			Description:   b.Description,
			Careers:       b.Careers,
			Housing:       b.Housing,
			JobAssistance: b.JobAssistance,
			AverageRating: b.AverageRating,
			AverageCost:   b.AverageCost,
			ReviewCount:   len(rs),
		}
		if b.Location != nil {
			data.City = b.Location.City
		}
		for _, c := range cs {
			data.Courses = append(data.Courses, CourseReportLine{
				Title:        c.Title,
				Weeks:        c.Weeks,
				Tuition:      c.Tuition,
				MinimumSkill: c.MinimumSkill,
			})
		}
		return data, nil
	}
}

// Generate returns the PDF bytes and a download filename.
func (s ReportService) Generate(ctx context.Context, bootcampID string) ([]byte, string, error) {
	data, err := s.Loader(ctx, bootcampID)
	if err != nil {
		return nil, "", err
	}
	return buildBootcampReportPDF(data)
}

func buildBootcampReportPDF(d BootcampReportData) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Bootcamp Summary", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, d.Name)
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	pdf.MultiCell(0, 6, d.Description, "", "", false)
	pdf.Ln(4)

	lines := []string{
		fmt.Sprintf("City           : %s", orDash(d.City)),
		fmt.Sprintf("Careers        : %s", orDash(strings.Join(d.Careers, ", "))),
		fmt.Sprintf("Housing        : %s", yesNo(d.Housing)),
		fmt.Sprintf("Job assistance : %s", yesNo(d.JobAssistance)),
		fmt.Sprintf("Average rating : %.1f / 10 (%d reviews)", d.AverageRating, d.ReviewCount),
		fmt.Sprintf("Average cost   : $%.2f", d.AverageCost),
	}
	for _, line := range lines {
		pdf.Cell(0, 7, line)
		pdf.Ln(7)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, fmt.Sprintf("Courses (%d)", len(d.Courses)))
	pdf.Ln(9)

	pdf.SetFont("Helvetica", "", 11)
	if len(d.Courses) == 0 {
		pdf.Cell(0, 7, "No courses listed yet.")
		pdf.Ln(7)
	}
	for _, c := range d.Courses {
		pdf.Cell(0, 7, fmt.Sprintf("- %s (%d weeks, $%.2f, %s)",
			c.Title, c.Weeks, c.Tuition, orDash(c.MinimumSkill)))
		pdf.Ln(7)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}
	filename := fmt.Sprintf("bootcamp_%s.pdf", d.ID)
	return buf.Bytes(), filename, nil
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
