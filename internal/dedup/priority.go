package dedup

import "horse.fit/llm-news/internal/news"

// Sources that are not in the priority table rank below every known tier.
const unknownSourcePriority = 99

// sourcePriority ranks each source by closeness to the original publisher;
// lower wins when two items are judged duplicates. Three tiers: primary
// publishers, aggregators that re-surface primary content, and community
// discussion forums. The table only breaks ties between judged duplicates,
// it never excludes an item on its own.
var sourcePriority = map[string]int{
	// Tier 1: primary / original sources.
	news.SourceArxiv:    10,
	news.SourceBlog:     11,
	news.SourceGitHub:   12,
	news.SourceHFModels: 13,

	// Tier 2: aggregators.
	news.SourceHFPapers:       20,
	news.SourceGitHubTrending: 21,
	news.SourcePapersWithCode: 22,

	// Tier 3: community discussion.
	news.SourceHackerNews: 30,
	news.SourceReddit:     31,
	news.SourceTwitter:    32,
}

// SourcePriority returns the rank for a source identifier; unknown sources
// get a sentinel rank worse than every known tier.
func SourcePriority(source string) int {
	if rank, ok := sourcePriority[source]; ok {
		return rank
	}
	return unknownSourcePriority
}
