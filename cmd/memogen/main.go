package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"memogen/internal/assemble"
	"memogen/internal/chat"
	"memogen/internal/config"
	"memogen/internal/memory"
	"memogen/internal/outline"
	"memogen/internal/pipeline"
	"memogen/internal/store"

	"github.com/spf13/cobra"
)

var (
	rootCmd = &cobra.Command{
		Use:   "memogen",
		Short: "Multi-agent memo production pipeline",
	}
	configPath string

	topic    string
	audience string
	memoType string

	mergeTitle string
	mergeFile  string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "Path to the configuration file")

	runCmd.Flags().StringVar(&topic, "topic", "", "Memo topic (overrides config)")
	runCmd.Flags().StringVar(&audience, "audience", "", "Target audience (overrides config)")
	runCmd.Flags().StringVar(&memoType, "type", "", "Memo type, e.g. technical, financial (overrides config)")

	mergeCmd.Flags().StringVar(&mergeTitle, "title", "", "Heading text of the section to replace")
	mergeCmd.Flags().StringVar(&mergeFile, "file", "", "Path to the new section content (markdown)")
	mergeCmd.MarkFlagRequired("title")
	mergeCmd.MarkFlagRequired("file")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(assembleCmd)
	rootCmd.AddCommand(mergeCmd)
}

func loadConfig() *config.Config {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if topic != "" {
		cfg.Memo.Topic = topic
	}
	if audience != "" {
		cfg.Memo.Audience = audience
	}
	if memoType != "" {
		cfg.Memo.Type = memoType
	}
	return cfg
}

// initMemory builds the reviewer-guidance memory when enabled. A nil return
// means the pipeline runs without memory.
func initMemory(ctx context.Context, cfg *config.Config) pipeline.Memory {
	if !cfg.Memory.Enabled {
		return nil
	}
	embedder, err := memory.NewGeminiEmbedder(ctx, cfg.AI.APIKey, cfg.AI.EmbeddingModel)
	if err != nil {
		log.Printf("⚠️ Memory disabled: %v", err)
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Memory.DBPath), 0755); err != nil {
		log.Printf("⚠️ Memory disabled: %v", err)
		return nil
	}
	noteStore, err := memory.NewNoteStore(cfg.Memory.DBPath)
	if err != nil {
		log.Printf("⚠️ Memory disabled: %v", err)
		return nil
	}
	return memory.NewEngine(embedder, noteStore)
}

func assembleDocument(cfg *config.Config, sections []string) {
	doc := assemble.NewDocument(cfg.Memo.Topic)
	doc.Meta.Audience = cfg.Memo.Audience
	doc.Meta.MemoType = cfg.Memo.Type
	doc.Meta.Topic = cfg.Memo.Topic
	doc.Rebuild(sections)

	if err := doc.Save(cfg.Output.ModelPath); err != nil {
		log.Fatalf("Failed to save document model: %v", err)
	}
	if err := os.WriteFile(cfg.Output.Markdown, []byte(doc.RenderMarkdown()), 0644); err != nil {
		log.Fatalf("Failed to write markdown: %v", err)
	}

	fmt.Printf("✅ Document model: %s\n", cfg.Output.ModelPath)
	fmt.Printf("✅ Markdown: %s\n", cfg.Output.Markdown)
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full pipeline: outline, draft pass, refine pass, assembly",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		cfg := loadConfig()

		if cfg.AI.APIKey == "" {
			log.Fatalf("AI API key not configured. Set MEMOGEN_API_KEY or ai.api_key in %s.", configPath)
		}
		if cfg.Memo.Topic == "" {
			log.Fatalf("No memo topic configured. Use --topic or memo.topic in %s.", configPath)
		}

		client, err := chat.NewGeminiClient(ctx, cfg.AI.APIKey, cfg.AI.Model)
		if err != nil {
			log.Fatalf("Failed to create AI client: %v", err)
		}

		sectionStore, err := store.NewSectionStore(cfg.Output.SectionDir)
		if err != nil {
			log.Fatalf("Failed to open section store: %v", err)
		}

		// Clear previous run results before drafting anew.
		if err := sectionStore.Clear(); err != nil {
			log.Fatalf("Failed to clear previous results: %v", err)
		}
		os.Remove(cfg.Output.ModelPath)
		os.Remove(cfg.Output.Markdown)

		driver := pipeline.NewDriver(
			sectionStore,
			chat.DefaultCast(cfg.Memo.Audience, cfg.Memo.Type),
			client,
			pipeline.Options{
				Audience:        cfg.Memo.Audience,
				MemoType:        cfg.Memo.Type,
				Topic:           cfg.Memo.Topic,
				TurnBudget:      cfg.Pipeline.TurnBudget,
				ReviewThreshold: cfg.Pipeline.ReviewThreshold,
				Memory:          initMemory(ctx, cfg),
			},
		)

		start := time.Now()
		fmt.Printf("🧭 Creating outline for %q...\n", cfg.Memo.Topic)
		outlineText, err := driver.CreateOutline(ctx)
		if err != nil {
			log.Fatalf("Outline failed: %v", err)
		}

		sections := outline.Split(outlineText)
		if len(sections) == 0 {
			fmt.Println("✅ Outline contains no sections. Nothing to draft.")
			return
		}
		fmt.Printf("📑 Outline split into %d sections.\n", len(sections))

		if err := sectionStore.Init(sections); err != nil {
			log.Fatalf("Failed to persist outline sections: %v", err)
		}

		fmt.Println("🚀 Drafting sections...")
		if err := driver.Run(ctx); err != nil {
			log.Fatalf("Pipeline failed: %v", err)
		}
		fmt.Printf("✅ Both passes complete in %v.\n", time.Since(start))

		final, err := sectionStore.ListOrdered()
		if err != nil {
			log.Fatalf("Failed to read final sections: %v", err)
		}

		fmt.Println("📄 Assembling document...")
		assembleDocument(cfg, final)
		fmt.Println("🎉 Memo complete!")
	},
}

var assembleCmd = &cobra.Command{
	Use:   "assemble",
	Short: "Assemble the document from previously drafted sections",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()

		sectionStore, err := store.NewSectionStore(cfg.Output.SectionDir)
		if err != nil {
			log.Fatalf("Failed to open section store: %v", err)
		}
		if err := sectionStore.Restore(); err != nil {
			log.Fatalf("Failed to restore sections: %v", err)
		}
		if sectionStore.Len() == 0 {
			log.Fatalf("No sections found in %s. Run the pipeline first.", cfg.Output.SectionDir)
		}

		sections, err := sectionStore.ListOrdered()
		if err != nil {
			log.Fatalf("Failed to read sections: %v", err)
		}

		fmt.Printf("📄 Assembling %d sections...\n", len(sections))
		assembleDocument(cfg, sections)
	},
}

var mergeCmd = &cobra.Command{
	Use:   "merge",
	Short: "Replace one section of the assembled document by heading title",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()

		newText, err := os.ReadFile(mergeFile)
		if err != nil {
			log.Fatalf("Failed to read %s: %v", mergeFile, err)
		}

		doc, err := assemble.LoadDocument(cfg.Output.ModelPath)
		if err != nil {
			log.Fatalf("Failed to load document model: %v", err)
		}

		if err := doc.Merge(mergeTitle, string(newText)); err != nil {
			log.Fatalf("Merge failed: %v", err)
		}

		if err := doc.Save(cfg.Output.ModelPath); err != nil {
			log.Fatalf("Failed to save document model: %v", err)
		}
		if err := os.WriteFile(cfg.Output.Markdown, []byte(doc.RenderMarkdown()), 0644); err != nil {
			log.Fatalf("Failed to write markdown: %v", err)
		}

		fmt.Printf("✅ Section %q replaced. Model: %s\n", mergeTitle, cfg.Output.ModelPath)
	},
}
