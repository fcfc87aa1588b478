package aggregator

import (
	"sort"

	"github.com/BhargavGarge/devpulse/internal/prmetrics/model"
)

// Persona tags assigned to contributors.
const (
	PersonaHighVelocityLowReview = "High Velocity, Low Review"
	PersonaCarefulReviewer       = "Careful Reviewer"
	PersonaLargePRSpecialist     = "Large PR Specialist"
	PersonaDriveBy               = "Drive-by Contributor"
)

const (
	topContributorsLimit = 5
	unknownAuthor        = "ghost"
)

// authorTally accumulates per-author figures during the PR pass.
type authorTally struct {
	login        string
	prCount      int
	linesChanged int
	fastMerges   int
	unreviewed   int
}

func (a *authorTally) avgSize() float64 {
	return ratio(a.linesChanged, a.prCount)
}

func (a *authorTally) fastMergeRatio() float64 {
	return ratio(a.fastMerges, a.prCount)
}

func (a *authorTally) unreviewedRatio() float64 {
	return ratio(a.unreviewed, a.prCount)
}

// personas derives the stackable persona tags of an author.
func personas(a *authorTally, totalPRs int) []string {
	tags := []string{}
	fast := a.fastMergeRatio()
	unreviewed := a.unreviewedRatio()

	if fast > 0.5 && unreviewed > 0.5 {
		tags = append(tags, PersonaHighVelocityLowReview)
	}
	if fast < 0.2 && unreviewed < 0.2 {
		tags = append(tags, PersonaCarefulReviewer)
	}
	if a.avgSize() > 600 {
		tags = append(tags, PersonaLargePRSpecialist)
	}
	if a.prCount <= 2 && totalPRs > 10 {
		tags = append(tags, PersonaDriveBy)
	}
	return tags
}

// ownershipRatios are the unrounded ratios behind ContributorInsights.
type ownershipRatios struct {
	singleContributor   float64
	reviewParticipation float64
}

// contributorInsights ranks authors and computes ownership and participation ratios.
func contributorInsights(
	authors map[string]*authorTally,
	reviewers map[string]struct{},
	totalPRs int,
) (*model.ContributorInsights, ownershipRatios) {
	ranked := make([]*authorTally, 0, len(authors))
	for _, a := range authors {
		ranked = append(ranked, a)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].prCount != ranked[j].prCount {
			return ranked[i].prCount > ranked[j].prCount
		}
		return ranked[i].login < ranked[j].login
	})

	insights := &model.ContributorInsights{
		TopContributors: []model.ContributorStat{},
	}
	if len(ranked) == 0 {
		return insights, ownershipRatios{}
	}

	for i, a := range ranked {
		if i == topContributorsLimit {
			break
		}
		insights.TopContributors = append(insights.TopContributors, model.ContributorStat{
			Login:        a.login,
			PRCount:      a.prCount,
			LinesChanged: a.linesChanged,
			Personas:     personas(a, totalPRs),
		})
	}

	raw := ownershipRatios{
		singleContributor:   ratio(ranked[0].prCount, totalPRs),
		reviewParticipation: ratio(len(reviewers), len(authors)),
	}
	insights.SingleContributorRatio = roundTo(raw.singleContributor, 2)
	insights.ReviewParticipationRate = roundTo(raw.reviewParticipation, 2)
	return insights, raw
}
