package aggregator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPersonas(t *testing.T) {
	t.Run("high velocity low review", func(t *testing.T) {
		a := &authorTally{login: "speedy", prCount: 5, linesChanged: 500, fastMerges: 3, unreviewed: 3}
		tags := personas(a, 5)
		assert.Equal(t, []string{PersonaHighVelocityLowReview}, tags)
	})

	t.Run("careful reviewer", func(t *testing.T) {
		a := &authorTally{login: "careful", prCount: 10, linesChanged: 1000, fastMerges: 1, unreviewed: 1}
		tags := personas(a, 10)
		assert.Equal(t, []string{PersonaCarefulReviewer}, tags)
	})

	t.Run("large drive-by pull request", func(t *testing.T) {
		a := &authorTally{login: "visitor", prCount: 1, linesChanged: 700, fastMerges: 1, unreviewed: 1}
		tags := personas(a, 15)
		assert.Contains(t, tags, PersonaLargePRSpecialist)
		assert.Contains(t, tags, PersonaDriveBy)
	})

	t.Run("drive-by needs more than ten pull requests in total", func(t *testing.T) {
		a := &authorTally{login: "visitor", prCount: 2, linesChanged: 100, fastMerges: 1, unreviewed: 0}
		assert.NotContains(t, personas(a, 10), PersonaDriveBy)
		assert.Contains(t, personas(a, 11), PersonaDriveBy)
	})

	t.Run("tags stack", func(t *testing.T) {
		a := &authorTally{login: "x", prCount: 2, linesChanged: 2000, fastMerges: 2, unreviewed: 2}
		tags := personas(a, 20)
		assert.Equal(t, []string{PersonaHighVelocityLowReview, PersonaLargePRSpecialist, PersonaDriveBy}, tags)
	})

	t.Run("no tags", func(t *testing.T) {
		a := &authorTally{login: "x", prCount: 4, linesChanged: 400, fastMerges: 1, unreviewed: 3}
		assert.Empty(t, personas(a, 4))
	})
}

func TestContributorInsights(t *testing.T) {
	t.Run("ranks by pull request count and keeps top five", func(t *testing.T) {
		authors := map[string]*authorTally{
			"alice": {login: "alice", prCount: 6, linesChanged: 600},
			"bob":   {login: "bob", prCount: 3, linesChanged: 300},
			"carol": {login: "carol", prCount: 3, linesChanged: 90},
			"dave":  {login: "dave", prCount: 1, linesChanged: 10},
			"erin":  {login: "erin", prCount: 1, linesChanged: 10},
			"frank": {login: "frank", prCount: 1, linesChanged: 10},
		}
		reviewers := map[string]struct{}{"alice": {}, "bob": {}, "zed": {}}

		insights, raw := contributorInsights(authors, reviewers, 15)

		require.Len(t, insights.TopContributors, 5)
		logins := make([]string, 0, 5)
		for _, c := range insights.TopContributors {
			logins = append(logins, c.Login)
		}
		assert.Equal(t, []string{"alice", "bob", "carol", "dave", "erin"}, logins)
		assert.Equal(t, 600, insights.TopContributors[0].LinesChanged)
		assert.InDelta(t, 0.4, insights.SingleContributorRatio, 1e-9)
		assert.InDelta(t, 0.5, insights.ReviewParticipationRate, 1e-9)
		assert.InDelta(t, 0.4, raw.singleContributor, 1e-9)
		assert.InDelta(t, 0.5, raw.reviewParticipation, 1e-9)
	})

	t.Run("reports rounded and returns raw ratios", func(t *testing.T) {
		authors := map[string]*authorTally{"alice": {login: "alice", prCount: 2}, "bob": {login: "bob", prCount: 1}}
		reviewers := map[string]struct{}{"carol": {}}

		insights, raw := contributorInsights(authors, reviewers, 3)

		assert.Equal(t, 0.67, insights.SingleContributorRatio)
		assert.Equal(t, 0.5, insights.ReviewParticipationRate)
		assert.InDelta(t, 2.0/3.0, raw.singleContributor, 1e-9)
	})

	t.Run("empty", func(t *testing.T) {
		insights, raw := contributorInsights(map[string]*authorTally{}, map[string]struct{}{}, 0)
		assert.Empty(t, insights.TopContributors)
		assert.Zero(t, insights.SingleContributorRatio)
		assert.Zero(t, insights.ReviewParticipationRate)
		assert.Zero(t, raw)
	})
}
