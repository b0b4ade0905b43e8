package ui

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"

	"github.com/thomas-vilte/commitformat/internal/i18n"
	"github.com/thomas-vilte/commitformat/internal/models"
)

const separatorLine = "━━━━━━━━━━━━━━━━━━━━━━━"

// acceptableScore is the lowest score rendered without the failure color.
const acceptableScore = 70

func printSeparator(w io.Writer) {
	_, _ = fmt.Fprintf(w, "%s\n", color.New(color.FgCyan).Sprint(separatorLine))
}

// PrintCommit renders a candidate commit message.
func PrintCommit(w io.Writer, commit models.CandidateCommit, t *i18n.Translations) {
	titleColor := color.New(color.FgCyan, color.Bold)

	_, _ = fmt.Fprintln(w)
	printSeparator(w)
	_, _ = fmt.Fprintf(w, "%s %s\n",
		color.New(color.FgGreen, color.Bold).Sprint("✓ "+t.GetMessage("ui_labels.commit_label", 0, nil)),
		titleColor.Sprint(commit.Header()))

	if commit.Body != "" {
		_, _ = fmt.Fprintln(w)
		for _, line := range strings.Split(commit.Body, "\n") {
			_, _ = fmt.Fprintf(w, "   %s\n", line)
		}
	}
	if commit.Breaking && commit.BreakingDescription != "" {
		_, _ = fmt.Fprintln(w)
		_, _ = fmt.Fprintf(w, "   %s %s\n", Warning.Sprint("BREAKING CHANGE:"), commit.BreakingDescription)
	}
	printSeparator(w)
}

func scoreColor(score int) *color.Color {
	switch {
	case score == 100:
		return color.New(color.FgGreen, color.Bold)
	case score >= acceptableScore:
		return color.New(color.FgYellow, color.Bold)
	default:
		return color.New(color.FgRed, color.Bold)
	}
}

func severityEmoji(s models.Severity) string {
	switch s {
	case models.SeverityCritical:
		return "🚨"
	case models.SeverityMajor:
		return "⚠️"
	default:
		return "💬"
	}
}

// PrintVerificationReport renders the factual check of a commit.
func PrintVerificationReport(w io.Writer, v *models.VerificationResult, t *i18n.Translations) {
	if v == nil {
		return
	}
	sectionColor := color.New(color.FgYellow, color.Bold)

	_, _ = fmt.Fprintf(w, "\n%s %s %s\n",
		StatsEmoji,
		Accent.Sprint(t.GetMessage("verification.title", 0, nil)),
		Dim.Sprintf("(%s)", v.Engine))
	_, _ = fmt.Fprintf(w, "   %s %s\n",
		Dim.Sprint(t.GetMessage("verification.score_label", 0, nil)),
		scoreColor(v.FactualAccuracy).Sprintf("%d/100", v.FactualAccuracy))

	if v.HasCriticalIssues {
		_, _ = fmt.Fprintf(w, "   %s\n", Error.Sprint("🚨 "+t.GetMessage("verification.critical", 0, nil)))
	}
	if v.DiffTruncated {
		_, _ = fmt.Fprintf(w, "   %s\n", Warning.Sprint(t.GetMessage("verification.truncated", 0, nil)))
	}

	if len(v.Issues) > 0 {
		_, _ = fmt.Fprintf(w, "\n%s\n", sectionColor.Sprint(t.GetMessage("verification.issues", 0, nil)))
		for _, issue := range v.Issues {
			line := fmt.Sprintf("%s [%s/%s] %s", severityEmoji(issue.Severity), issue.Type, issue.Severity, issue.Description)
			if issue.BeyondTruncation {
				line += " " + Dim.Sprint(t.GetMessage("verification.beyond_truncation", 0, nil))
			}
			_, _ = fmt.Fprintf(w, "   %s\n", line)
			if issue.Evidence != "" {
				_, _ = fmt.Fprintf(w, "      %s\n", Dim.Sprint(issue.Evidence))
			}
		}
	}

	printSymbolList(w, t.GetMessage("verification.verified_symbols", 0, nil), v.VerifiedSymbols, color.New(color.FgGreen), "✓")
	printSymbolList(w, t.GetMessage("verification.missing_symbols", 0, nil), v.MissingSymbols, color.New(color.FgYellow), "•")
	printSymbolList(w, t.GetMessage("verification.hallucinated_symbols", 0, nil), v.HallucinatedSymbols, color.New(color.FgRed), "✗")

	if len(v.Recommendations) > 0 {
		_, _ = fmt.Fprintf(w, "\n%s\n", sectionColor.Sprint(t.GetMessage("verification.recommendations", 0, nil)))
		for _, r := range v.Recommendations {
			_, _ = fmt.Fprintf(w, "   %s %s\n", color.YellowString("💡"), r)
		}
	}

	if v.Reasoning != "" {
		_, _ = fmt.Fprintf(w, "\n   %s\n", Dim.Sprint(v.Reasoning))
	}
	_, _ = fmt.Fprintln(w)
}

func printSymbolList(w io.Writer, title string, symbols []string, c *color.Color, bullet string) {
	if len(symbols) == 0 {
		return
	}
	_, _ = fmt.Fprintf(w, "   %s %s\n", Dim.Sprint(title+":"), c.Sprint(bullet+" "+strings.Join(symbols, ", "+bullet+" ")))
}

// PrintVerificationUnavailable tells the user the commit could not be checked.
func PrintVerificationUnavailable(w io.Writer, err error, t *i18n.Translations) {
	PrintWarning(w, t.GetMessage("verification.unavailable", 0, nil))
	if err != nil {
		_, _ = fmt.Fprintf(w, "   %s\n", Dim.Sprint(err.Error()))
	}
}

// PrintAnalysis renders a diff analysis.
func PrintAnalysis(w io.Writer, a *models.DiffAnalysis, t *i18n.Translations) {
	if a == nil {
		return
	}
	sectionColor := color.New(color.FgYellow, color.Bold)

	PrintSectionBanner(w, t.GetMessage("analysis.title", 0, nil))
	PrintKeyValue(w, t.GetMessage("analysis.files_changed", 0, nil), fmt.Sprint(a.Summary.FilesChanged))
	PrintKeyValue(w, t.GetMessage("analysis.lines", 0, nil),
		fmt.Sprintf("+%d -%d", a.Summary.Insertions, a.Summary.Deletions))

	if len(a.ChangePatterns) > 0 {
		_, _ = fmt.Fprintf(w, "\n%s\n", sectionColor.Sprint(t.GetMessage("analysis.patterns", 0, nil)))
		for i, p := range a.ChangePatterns {
			label := string(p.Type)
			if i == 0 {
				label = Success.Sprint(label)
			}
			_, _ = fmt.Fprintf(w, "   • %s %s\n", label, Dim.Sprintf("%.0f%%", p.Confidence*100))
		}
	}

	if len(a.ModifiedSymbols) > 0 {
		_, _ = fmt.Fprintf(w, "\n%s\n", sectionColor.Sprint(t.GetMessage("analysis.symbols", 0, nil)))
		for _, s := range a.ModifiedSymbols {
			where := ""
			if s.File != "" {
				where = " " + Dim.Sprint(s.File)
			}
			_, _ = fmt.Fprintf(w, "   • %s %s%s\n", Info.Sprint(s.Name), Dim.Sprintf("(%s, %s)", s.Type, s.Change), where)
		}
	}

	PrintFilesTree(w, a.Files, sectionColor.Sprint(t.GetMessage("analysis.files", 0, nil)))
	_, _ = fmt.Fprintln(w)
}

// PrintCommitStats renders how closely recent history follows the convention.
func PrintCommitStats(w io.Writer, s *models.CommitStats, t *i18n.Translations) {
	if s == nil {
		return
	}
	PrintSectionBanner(w, t.GetMessage("stats.title", 0, nil))
	if s.Total == 0 {
		PrintInfo(w, t.GetMessage("stats.no_commits", 0, nil))
		return
	}

	PrintKeyValue(w, t.GetMessage("stats.total", 0, nil), fmt.Sprint(s.Total))
	PrintKeyValue(w, t.GetMessage("stats.conventional", 0, nil), fmt.Sprint(s.Conventional))
	PrintKeyValue(w, t.GetMessage("stats.non_conventional", 0, nil), fmt.Sprint(s.NonConventional))
	PrintKeyValue(w, t.GetMessage("stats.percentage", 0, nil), scoreColor(int(s.Percentage)).Sprintf("%.1f%%", s.Percentage))

	if len(s.TypeBreakdown) == 0 {
		return
	}
	types := sortedKeys(s.TypeBreakdown)
	sort.SliceStable(types, func(i, j int) bool {
		return s.TypeBreakdown[types[i]] > s.TypeBreakdown[types[j]]
	})
	_, _ = fmt.Fprintf(w, "\n%s\n", color.New(color.FgYellow, color.Bold).Sprint(t.GetMessage("stats.breakdown", 0, nil)))
	for _, typ := range types {
		_, _ = fmt.Fprintf(w, "   %-10s %d\n", typ, s.TypeBreakdown[typ])
	}
	_, _ = fmt.Fprintln(w)
}
