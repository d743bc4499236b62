package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/corey/chatstat/internal/app"
	"github.com/corey/chatstat/internal/ports"
)

// ANSI color codes for terminal output.
const (
	colorReset  = "\033[0m"
	colorBold   = "\033[1m"
	colorCyan   = "\033[36m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorGray   = "\033[90m"
)

// showLimit caps every top-N list in terminal summaries. The exports carry
// the full configured lengths.
const showLimit = 5

// formatImport formats an import outcome.
//
//	⚡ imported 120 new messages (150 read) │ cursor 9981
func formatImport(res *app.ImportResult) string {
	return fmt.Sprintf("%s⚡ imported %d new messages%s (%d read) │ cursor %d",
		colorBold, res.Written, colorReset, res.Read, res.LastID)
}

// formatReport formats the group-wide part of a report for the terminal.
//
//	⚡ 4 users │ 1200 messages │ 2024-01-02 → 2024-03-01
//	  activeness 300.0/user │ media 4.2% │ loud 1.3% │ naughty 0.8%
//	  top words   hello(12) world(9)
//	  most active Ann 41.0%  Bob 30.5%
func formatReport(rep *ports.Report) string {
	if rep == nil || rep.Global == nil {
		return "⚡ no report"
	}
	g := rep.Global

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s⚡ %d users │ %d messages%s", colorBold, g.UserCount, g.MessageCount, colorReset))
	if g.FirstDay != "" {
		sb.WriteString(fmt.Sprintf(" │ %s → %s", g.FirstDay, g.LastDay))
	}
	sb.WriteString("\n")

	sb.WriteString(fmt.Sprintf("  activeness %.1f/user │ media %s │ loud %s │ naughty %s",
		g.Activeness, percent(g.MediaRatio), percent(g.Loudness), percent(g.Naughtiness)))
	if g.Sentiment != nil {
		sb.WriteString(fmt.Sprintf(" │ sentiment %+.2f", *g.Sentiment))
	}
	sb.WriteString("\n")

	writeCounts(&sb, "top words", g.TopWords)
	writeCounts(&sb, "reactions", g.TopReactions)
	writeCounts(&sb, "busy days", g.TopDays)

	names := make([]string, 0, len(g.TopCategories))
	for name := range g.TopCategories {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		writeCounts(&sb, name, g.TopCategories[name])
	}

	writeRanked(&sb, "most active", g.TopActiveUsers)
	writeRanked(&sb, "loudest", g.TopLoudUsers)
	writeRanked(&sb, "naughtiest", g.TopCursingUsers)
	writeRanked(&sb, "most reacted", g.TopReactedUsers)

	return strings.TrimRight(sb.String(), "\n")
}

// formatFiles lists exported files.
func formatFiles(files []string) string {
	var sb strings.Builder
	for _, f := range files {
		sb.WriteString(fmt.Sprintf("  %s→ %s%s\n", colorGray, f, colorReset))
	}
	return strings.TrimRight(sb.String(), "\n")
}

// formatCensus formats one view of the word census, one word per line.
func formatCensus(c *ports.WordCensus, insensitive, alpha bool, limit int) string {
	if c == nil {
		return "⚡ no words"
	}
	view := c.SensitiveByFrequency
	switch {
	case insensitive && alpha:
		view = c.InsensitiveAlphabetical
	case insensitive:
		view = c.InsensitiveByFrequency
	case alpha:
		view = c.SensitiveAlphabetical
	}
	if limit > 0 && len(view) > limit {
		view = view[:limit]
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s⚡ %d words%s\n", colorBold, len(view), colorReset))
	for _, w := range view {
		sb.WriteString(fmt.Sprintf("  %s%7d%s  %s\n", colorCyan, w.Count, colorReset, w.Key))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func writeCounts(sb *strings.Builder, label string, counts []ports.Count) {
	if len(counts) == 0 {
		return
	}
	if len(counts) > showLimit {
		counts = counts[:showLimit]
	}
	parts := make([]string, len(counts))
	for i, c := range counts {
		parts[i] = fmt.Sprintf("%s%s%s(%d)", colorGreen, c.Key, colorReset, c.Count)
	}
	sb.WriteString(fmt.Sprintf("  %-12s %s\n", label, strings.Join(parts, " ")))
}

func writeRanked(sb *strings.Builder, label string, users []ports.RankedUser) {
	if len(users) == 0 {
		return
	}
	if len(users) > showLimit {
		users = users[:showLimit]
	}
	parts := make([]string, len(users))
	for i, u := range users {
		parts[i] = fmt.Sprintf("%s%s%s %s", colorYellow, u.Name, colorReset, percent(u.Ratio))
	}
	sb.WriteString(fmt.Sprintf("  %-12s %s\n", label, strings.Join(parts, "  ")))
}

func percent(r float64) string {
	return fmt.Sprintf("%.1f%%", r*100)
}
