package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"

	"github.com/theirongolddev/claimsdash/internal/claim"
	"github.com/theirongolddev/claimsdash/internal/tui/theme"
)

func init() {
	// Force TrueColor output so ANSI codes are generated in tests
	lipgloss.SetColorProfile(termenv.TrueColor)
}

func sampleClaim() claim.FormattedClaim {
	return claim.FormattedClaim{
		Claim: claim.Claim{
			ID:           7,
			Number:       "CL-00007",
			Status:       "Approved",
			Holder:       "Jane Doe",
			PolicyNumber: "TL-12345",
			InsuredName:  "Laptop",
			Description:  "Screen cracked after a fall from the desk during a move between offices",
		},
		FormattedClaimAmount:   "$1,500.00",
		FormattedProcessingFee: "$75.00",
		FormattedTotalAmount:   "$1,575.00",
		FormattedIncidentDate:  "Jun 1, 2025",
		FormattedCreatedDate:   "2 days ago",
	}
}

func TestClaimCard_FixedHeight(t *testing.T) {
	theme.SetActive("flexoki-dark")

	for _, w := range []int{24, 40, 80} {
		card := ClaimCard(sampleClaim(), w, false)
		assert.Equal(t, ClaimCardLines+2, lipgloss.Height(card), "width %d", w)
		assert.LessOrEqual(t, lipgloss.Width(card), max(w, 12), "width %d", w)
	}
}

func TestClaimCard_SelectedUsesAccentBorder(t *testing.T) {
	theme.SetActive("terminal")
	defer theme.SetActive("flexoki-dark")

	plain := ClaimCard(sampleClaim(), 40, false)
	sel := ClaimCard(sampleClaim(), 40, true)
	assert.NotEqual(t, plain, sel)
	assert.Contains(t, sel, "CL-00007")
	assert.Contains(t, sel, "Approved")
}

func TestCardRow_HeightMatchesTallest(t *testing.T) {
	theme.SetActive("flexoki-dark")

	short := ContentCard("Short", "Content", 22)
	tall := ContentCard("Tall", "Line 1\nLine 2\nLine 3\nLine 4", 22)

	joined := CardRow([]string{tall, short})
	assert.Equal(t, lipgloss.Height(tall), lipgloss.Height(joined))
	for i, line := range strings.Split(joined, "\n") {
		assert.Contains(t, line, "\x1b[", "line %d lost its styling", i)
	}
}

func TestLayoutRow(t *testing.T) {
	assert.Equal(t, []int{34, 33, 33}, LayoutRow(100, 3))
	assert.Nil(t, LayoutRow(100, 0))
}

func TestStatusBar_FillsWidth(t *testing.T) {
	bar := RenderStatusBar(60, "[?] help", "42 claims")
	assert.Equal(t, 60, lipgloss.Width(bar))
}

func TestTabBar_WidthsMatchRenderer(t *testing.T) {
	bar := RenderTabBar(0, 80)
	want := 0
	for i, tab := range Tabs {
		want += TabVisualWidth(tab)
		if i < len(Tabs)-1 {
			want++
		}
	}
	assert.Equal(t, want, lipgloss.Width(bar))
}

func TestThemeStatusColors(t *testing.T) {
	th := theme.ByName("flexoki-dark")
	assert.Equal(t, th.Green, th.Status("Approved"))
	assert.Equal(t, th.Red, th.Status("Rejected"))
	assert.Equal(t, th.TextMuted, th.Status("pending"))
	assert.Equal(t, "flexoki-dark", theme.ByName("nope").Name)
}
