package search

import "ArticleEnhancer/internal/domain"

// FallbackReferences returns two canned encyclopedic references. They keep
// the pipeline live when the search provider is down or every scrape failed:
// downstream stages always have something to cite.
func FallbackReferences() []domain.Reference {
	return []domain.Reference{
		{
			URL: "https://en.wikipedia.org/wiki/Chatbot",
			Content: "A chatbot (originally chatterbot) is a software application or web interface " +
				"that aims to mimic human conversation through text or voice interactions. Modern " +
				"chatbots are typically online and use artificial intelligence (AI) systems that " +
				"are capable of maintaining a conversation with a user in natural language and " +
				"simulating the way a human would behave as a conversational partner. Such " +
				"technologies often utilize aspects of deep learning and natural language processing.",
		},
		{
			URL: "https://www.ibm.com/topics/chatbots",
			Content: "A chatbot is a computer program that uses artificial intelligence (AI) and " +
				"natural language processing (NLP) to understand customer questions and automate " +
				"responses to them, simulating human conversation. Chatbots can make it easy for " +
				"users to find information, by responding to their questions and requests, through " +
				"text or audio input, without the need for human intervention.",
		},
	}
}
