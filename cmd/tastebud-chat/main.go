// Command tastebud-chat answers restaurant questions grounded in a
// previously built knowledge snapshot. By default it runs a fixed set
// of smoke-test queries; with -interactive it reads questions from
// stdin.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/tastebud-ai/tastebud/src/chat"
	"github.com/tastebud-ai/tastebud/src/embed"
	"github.com/tastebud-ai/tastebud/src/knowledge"
	"github.com/tastebud-ai/tastebud/src/models"
)

var testQueries = []string{
	"Which restaurant has Chicken Tikka?",
	"Tell me about vegetarian options at Awesome Restaurant 1",
	"What is the price range for desserts at Awesome Restaurant 2?",
	"Compare Awesome Restaurant 3 and Awesome Restaurant 4 features",
	"Does Awesome Restaurant 5 have wifi?",
	"What are the hours for Awesome Restaurant 6 on weekends?",
	"Tell me about gluten free food",
}

func main() {
	snapshotDir := flag.String("kb", "kb_data", "snapshot directory written by tastebud-ingest")
	provider := flag.String("provider", "gemini", "generation provider (gemini|openai|anthropic|ollama|dummy)")
	model := flag.String("model", "", "model override for the chosen provider")
	topK := flag.Int("top-k", 0, "number of candidates to rank (0 = default)")
	threshold := flag.Float64("threshold", 0.3, "minimum similarity score")
	interactive := flag.Bool("interactive", false, "read queries from stdin instead of running smoke tests")
	flag.Parse()

	logger := log.New(os.Stderr, "chat: ", log.LstdFlags)
	ctx := context.Background()

	store := knowledge.NewStore().WithLogger(logger)
	if err := store.EnsureLoaded(ctx, knowledge.NewFileSource(*snapshotDir)); err != nil {
		log.Fatalf("load knowledge snapshot: %v", err)
	}
	logger.Printf("loaded %d records (dim=%d) from %s", store.Len(), store.Dim(), *snapshotDir)

	generator, err := models.NewGenerator(ctx, *provider, *model)
	if err != nil {
		log.Fatalf("create generator: %v", err)
	}

	opts := chat.DefaultOptions()
	if *topK > 0 {
		opts.TopK = *topK
	}
	opts.Threshold = *threshold
	embedder := embed.NewCachedEmbedder(embed.AutoEmbedder(), embed.DefaultCacheCapacity, embed.DefaultCacheTTL)
	engine := chat.NewEngine(store, embedder, generator, opts).WithLogger(logger)

	if *interactive {
		runInteractive(ctx, engine)
		return
	}
	for _, q := range testQueries {
		fmt.Printf("\n--- Query: %s ---\n", q)
		answer, err := engine.Ask(ctx, q)
		if err != nil {
			logger.Printf("query failed: %v", err)
			continue
		}
		fmt.Printf("Answer: %s\n", answer)
	}
}

func runInteractive(ctx context.Context, engine *chat.Engine) {
	scanner := bufio.NewScanner(os.Stdin)
	fmt.Println("Ask about restaurants (empty line to quit).")
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		query := strings.TrimSpace(scanner.Text())
		if query == "" {
			return
		}
		answer, err := engine.Ask(ctx, query)
		if err != nil {
			fmt.Printf("error: %v\n", err)
			continue
		}
		fmt.Println(answer)
	}
}
