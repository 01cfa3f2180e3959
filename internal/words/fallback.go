package words

// fallbackWords is the built-in English list used when no word source
// is reachable. It guarantees a session can always start.
var fallbackWords = []string{
	"the", "be", "to", "of", "and", "a", "in", "that", "have", "it",
	"for", "not", "on", "with", "he", "as", "you", "do", "at", "this",
	"but", "his", "by", "from", "they", "we", "say", "her", "she", "or",
	"an", "will", "my", "one", "all", "would", "there", "their", "what",
	"so", "up", "out", "if", "about", "who", "get", "which", "go", "me",
	"when", "make", "can", "like", "time", "no", "just", "him", "know",
	"take", "people", "into", "year", "your", "good", "some", "could",
	"them", "see", "other", "than", "then", "now", "look", "only", "come",
	"its", "over", "think", "also", "back", "after", "use", "two", "how",
	"our", "work", "first", "well", "way", "even", "new", "want",
	"because", "any", "these", "give", "day", "most", "us", "is", "was",
	"are", "been", "has", "had", "were", "said", "did", "having", "may",
}

// Fallback returns a copy of the built-in English word list.
func Fallback() []string {
	out := make([]string, len(fallbackWords))
	copy(out, fallbackWords)
	return out
}
