// Command summarize runs the extraction and summarization pipeline once
// against a local PDF, printing the summary or writing it as an artifact.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"gpdf/internal/converter"
	"gpdf/internal/extractor"
	"gpdf/internal/llm"
	"gpdf/internal/summarizer"

	"github.com/joho/godotenv"
)

func main() {
	maxPages := flag.Int("pages", 3, "number of pages to summarize")
	format := flag.String("format", "", "write the summary as an artifact (txt, docx, pdf)")
	out := flag.String("o", "", "output file (defaults to summary.<format>)")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: summarize [flags] <file.pdf>")
		flag.PrintDefaults()
		os.Exit(2)
	}

	_ = godotenv.Load()
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		log.Fatal("OPENAI_API_KEY environment variable is required")
	}

	path := flag.Arg(0)
	data, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("Failed to read %s: %v", path, err)
	}
	if !extractor.Validate(data) {
		log.Fatalf("%s is not a valid PDF", path)
	}

	text, err := extractor.ExtractText(data, *maxPages)
	if err != nil {
		log.Fatalf("Extraction failed: %v", err)
	}
	if text == "" {
		log.Fatalf("No extractable text in %s (image-based PDF?)", path)
	}

	start := time.Now()
	client := llm.NewClient(apiKey, os.Getenv("LLM_MODEL"), 60*time.Second)
	summary, err := summarizer.New(client).Summarize(context.Background(), text)
	if err != nil {
		log.Fatalf("Summarization failed: %v", err)
	}
	log.Printf("Summarized %s in %.1fs", path, time.Since(start).Seconds())

	if *format == "" {
		fmt.Println(summary)
		return
	}

	f, err := converter.ParseFormat(*format)
	if err != nil {
		log.Fatal(err)
	}
	conv := converter.New(os.Getenv("CJK_FONT_PATH"), os.Getenv("CJK_FONT_NAME"))
	rendered, err := conv.Convert(f, summary)
	if err != nil {
		log.Fatalf("Conversion failed: %v", err)
	}

	target := *out
	if target == "" {
		target = "summary" + f.Ext()
	}
	if err := os.WriteFile(target, rendered, 0644); err != nil {
		log.Fatalf("Failed to write %s: %v", target, err)
	}
	log.Printf("Wrote %s (%d bytes)", target, len(rendered))
}
