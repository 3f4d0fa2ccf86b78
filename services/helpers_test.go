package services

import (
	"time"

	"learnbot/utils"
)

func testConfig() utils.Config {
	return utils.Config{
		GenerationTimeout: time.Second,
		OllamaURL:         "http://127.0.0.1:1",
		OllamaModel:       "tinyllama:latest",
		HuggingFaceURL:    "http://127.0.0.1:1",
		HuggingFaceModel:  "google/flan-t5-large",
		OpenAIBaseURL:     "http://127.0.0.1:1",
		OpenAIModel:       "gpt-3.5-turbo",
	}
}
