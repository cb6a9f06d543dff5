// market-report prints the dashboard views of a regional snapshot and,
// optionally, a salary estimate.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/pterm/pterm"

	"jobmarket-workers/internal/analytics"
	"jobmarket-workers/internal/models"
	"jobmarket-workers/internal/salary"
	"jobmarket-workers/internal/snapshot"
)

func splitSkills(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// colorSalary shades a formatted amount by its share of the top value.
func colorSalary(formatted string, percentOfMax float64) string {
	switch {
	case percentOfMax >= 90:
		return pterm.Green(formatted)
	case percentOfMax >= 75:
		return pterm.LightGreen(formatted)
	case percentOfMax >= 60:
		return pterm.Yellow(formatted)
	default:
		return pterm.Red(formatted)
	}
}

func renderDashboard(d analytics.Dashboard, currency string) error {
	pterm.DefaultSection.Printfln("Job market: %s", strings.ToUpper(d.Region))
	pterm.Info.Printfln("%s respondents, average %s, top technology %s, %.1f%% fully remote",
		humanize.Comma(int64(d.Summary.TotalRespondents)),
		salary.FormatAmount(d.Summary.AverageSalary, currency),
		d.Summary.TopTechnology,
		d.Summary.RemotePercentage,
	)

	pterm.DefaultSection.WithLevel(2).Println("Languages by median salary")
	langs := pterm.TableData{{"#", "Language", "Median", "Reports"}}
	for _, b := range d.Languages.Bars {
		langs = append(langs, []string{
			fmt.Sprint(b.Rank),
			b.Name,
			colorSalary(salary.FormatAmount(b.MedianSalary, currency), b.Ratio),
			humanize.Comma(int64(b.SampleCount)),
		})
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(langs).Render(); err != nil {
		return err
	}
	pterm.Printfln("Based on %s salary reports", humanize.Comma(int64(d.Languages.TotalReports)))

	pterm.DefaultSection.WithLevel(2).Println("Locations")
	locs := pterm.TableData{{"#", "Location", "Median", "Of max", "Jobs"}}
	for _, l := range d.Locations {
		locs = append(locs, []string{
			fmt.Sprint(l.Rank),
			l.Country,
			colorSalary(salary.FormatAmount(l.MedianSalary, currency), l.PercentOfMax),
			fmt.Sprintf("%d%%", l.PercentLabel),
			humanize.Comma(int64(l.JobCount)),
		})
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(locs).Render(); err != nil {
		return err
	}

	pterm.DefaultSection.WithLevel(2).Println("Remote work")
	if d.Remote.NoData {
		pterm.Warning.Println("No remote work data")
	} else {
		bars := make(pterm.Bars, 0, len(d.Remote.Shares))
		for _, s := range d.Remote.Shares {
			bars = append(bars, pterm.Bar{Label: string(s.Label), Value: int(s.Percentage + 0.5)})
		}
		if err := pterm.DefaultBarChart.WithHorizontal().WithBars(bars).WithShowValue().Render(); err != nil {
			return err
		}
	}

	pterm.DefaultSection.WithLevel(2).Println("Career progression")
	career := pterm.TableData{{"Level", "Salary", "Growth"}}
	for _, c := range d.Career {
		growth := "-"
		if c.HasGrowth {
			growth = fmt.Sprintf("+%.1f%%", c.GrowthPercent)
		}
		if c.LargestJump {
			growth = pterm.Green(growth + " (largest jump)")
		}
		career = append(career, []string{c.Level, salary.FormatAmount(c.Salary, currency), growth})
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(career).Render(); err != nil {
		return err
	}

	pterm.DefaultSection.WithLevel(2).Println("Skill ROI")
	roi := pterm.TableData{{"Skill", "Median", "Demand", "ROI", "vs top"}}
	for _, s := range d.SkillROI {
		roi = append(roi, []string{
			s.Name,
			salary.FormatAmount(s.MedianSalary, currency),
			fmt.Sprintf("%.1f%%", s.DemandPercentage),
			fmt.Sprintf("%.2f", s.ROIScore),
			fmt.Sprintf("%.0f%%", s.RelativeToTop),
		})
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(roi).Render(); err != nil {
		return err
	}

	if len(d.Emerging) > 0 {
		pterm.DefaultSection.WithLevel(2).Println("Emerging technologies")
		emerging := pterm.TableData{{"Technology", "Growth", "Salary", "Demand"}}
		for _, e := range d.Emerging {
			emerging = append(emerging, []string{
				e.Name,
				pterm.Green(fmt.Sprintf("+%.0f%%", e.Growth)),
				salary.FormatAmount(e.Salary, currency),
				e.Demand,
			})
		}
		if err := pterm.DefaultTable.WithHasHeader().WithData(emerging).Render(); err != nil {
			return err
		}
	}

	if len(d.Insights.SalaryTrends) == 0 && len(d.Insights.Predictions) == 0 {
		return nil
	}
	pterm.DefaultSection.WithLevel(2).Println("Market insights")
	trends := pterm.TableData{{"Year", "Average", "Remote"}}
	for _, tr := range d.Insights.SalaryTrends {
		trends = append(trends, []string{
			fmt.Sprint(tr.Year),
			salary.FormatAmount(tr.AverageSalary, currency),
			fmt.Sprintf("%.0f%%", tr.RemotePercentage),
		})
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(trends).Render(); err != nil {
		return err
	}
	for _, p := range d.Insights.Predictions {
		pterm.Printfln("%s: %s", p.Metric, humanize.Commaf(p.Value))
	}
	return nil
}

func renderEstimate(est *salary.Estimator, input models.PredictionInput) error {
	b := est.Breakdown(input)
	currency := est.Currency()

	pterm.DefaultSection.WithLevel(2).Println("Salary estimate")
	rows := pterm.TableData{
		{"Step", "Value"},
		{"Base", salary.FormatAmount(b.Base, currency)},
		{fmt.Sprintf("Experience x%.2f", b.ExperienceMultiplier), salary.FormatAmount(b.AfterExperience, currency)},
		{fmt.Sprintf("Location x%.2f", b.LocationMultiplier), salary.FormatAmount(b.AfterLocation, currency)},
		{fmt.Sprintf("%d skills +%s", b.SkillCount, salary.FormatAmount(b.SkillBonus, currency)), salary.FormatAmount(b.AfterSkills, currency)},
		{"Specialization", fmt.Sprint(b.Specialized)},
		{"Senior high-demand premium", fmt.Sprint(b.SeniorPremium)},
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(rows).Render(); err != nil {
		return err
	}
	pterm.Success.Printfln("Estimated salary: %s", salary.FormatAmount(b.Rounded, currency))
	return nil
}

func main() {
	region := flag.String("region", "uk", "Snapshot region (uk|us)")
	dir := flag.String("dir", "", "Directory of <region>.json snapshots overriding the built-in ones")
	query := flag.String("query", "", "Case-insensitive filter for language and location names")
	sortDir := flag.String("sort", "desc", "Sort direction for rankings (asc|desc)")
	limit := flag.Int("limit", analytics.DefaultChartLimit, "Number of languages shown")
	experience := flag.String("experience", "", "Experience bracket for an estimate, e.g. \"Senior (5-8 yrs)\"")
	location := flag.String("location", "", "Location for an estimate")
	skills := flag.String("skills", "", "Comma-separated skills for an estimate")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	dirn, err := analytics.ParseDirection(*sortDir)
	if err != nil {
		pterm.Error.Println(err)
		os.Exit(2)
	}

	snap, err := snapshot.NewFileSource(*dir).Load(context.Background(), *region)
	if err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}

	state := analytics.ViewState{Query: *query, Direction: dirn, Limit: *limit}
	code := snapshot.NormalizeRegion(*region)
	if err := renderDashboard(analytics.BuildDashboard(code, snap, state), snap.Summary.Currency); err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}

	input := models.PredictionInput{Experience: *experience, Location: *location, Skills: splitSkills(*skills)}
	if input.Experience == "" && input.Location == "" && len(input.Skills) == 0 {
		return
	}

	tables, ok := salary.TablesFor(code)
	if !ok {
		pterm.Warning.Printfln("No salary tables for region %q", code)
		return
	}
	est, err := salary.NewEstimator(tables)
	if err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
	if err := renderEstimate(est, input); err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
}
