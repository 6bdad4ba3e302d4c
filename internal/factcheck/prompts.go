package factcheck

import "fmt"

func analysisSystemPrompt(lang string) string {
	return fmt.Sprintf(`You are a medical fact-checker. Analyze health claims in videos and provide response in %[1]s.

Return ONLY valid JSON in this exact format:
{
    "summary": "Overall analysis paragraph in %[1]s",
    "claims": [
        {
            "claim": "Specific health claim",
            "verdict": "TRUE/FALSE/PARTIALLY TRUE",
            "explanation": "Why this verdict",
            "sources": ["Source 1", "Source 2"]
        }
    ],
    "rating": 75.5,
    "key_issues": ["Issue 1", "Issue 2"]
}

Rules:
1. Provide detailed scientific analysis
2. Use medical sources (PubMed, WHO, CDC)
3. Rate accuracy 0-100%%
4. Respond entirely in %[1]s`, lang)
}

func analysisUserPrompt(transcript, lang string) string {
	return fmt.Sprintf(`Analyze this health video transcript and fact-check all claims:

%s

Provide analysis in %s with scientific sources.`, transcript, lang)
}

func chatSystemPrompt(transcript, analysisJSON, lang string) string {
	return fmt.Sprintf(`You are a medical expert discussing a health video. Respond in %[1]s.

Original transcript: %[2]s

Analysis: %[3]s

Answer user questions conversationally and informatively in %[1]s.`, lang, transcript, analysisJSON)
}
