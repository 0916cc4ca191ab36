// Package llm talks to hosted language models for chat replies and health
// analysis. It supports OpenAI-compatible endpoints (including OpenRouter),
// Anthropic and Gemini, with retry logic, rate limiting, and response caching.
package llm
