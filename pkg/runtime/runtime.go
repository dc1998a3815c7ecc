// Package runtime assembles the configured components into a working system:
// providers, stores, tools, agents and the orchestrator.
package runtime

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prepgraph/prepgraph/pkg/agents"
	"github.com/prepgraph/prepgraph/pkg/config"
	"github.com/prepgraph/prepgraph/pkg/databases"
	"github.com/prepgraph/prepgraph/pkg/embedders"
	"github.com/prepgraph/prepgraph/pkg/extract"
	"github.com/prepgraph/prepgraph/pkg/graph"
	"github.com/prepgraph/prepgraph/pkg/ingest"
	"github.com/prepgraph/prepgraph/pkg/llms"
	"github.com/prepgraph/prepgraph/pkg/rag"
	"github.com/prepgraph/prepgraph/pkg/store"
	"github.com/prepgraph/prepgraph/pkg/tools"
	"github.com/prepgraph/prepgraph/pkg/youtube"
)

// Runtime is the assembled system for one configuration.
type Runtime struct {
	cfg *config.Config

	llms     *llms.LLMRegistry
	db       databases.DatabaseProvider
	embedder embedders.EmbedderProvider

	analyses  *store.AnalysisStore
	documents *store.DocumentStore

	orchestrator *graph.Orchestrator
	qa           *agents.QAAgent
}

// New builds a runtime from configuration. Construction fails fast: a
// missing provider or unknown agent LLM reference is an error here, never
// mid-run.
func New(cfg *config.Config) (*Runtime, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	llmRegistry := llms.NewLLMRegistry()
	for name := range cfg.LLMs {
		llmCfg := cfg.LLMs[name]
		if _, err := llmRegistry.CreateFromConfig(name, &llmCfg); err != nil {
			return nil, fmt.Errorf("llm '%s': %w", name, err)
		}
	}

	embedderRegistry := embedders.NewEmbedderRegistry()
	embedder, err := embedderRegistry.CreateFromConfig("default", &cfg.Embedder)
	if err != nil {
		return nil, fmt.Errorf("embedder: %w", err)
	}

	dbRegistry := databases.NewDatabaseRegistry()
	db, err := dbRegistry.CreateFromConfig("default", &cfg.VectorStore)
	if err != nil {
		return nil, fmt.Errorf("vector store: %w", err)
	}

	analyses := store.NewAnalysisStore(db, embedder, cfg.VectorStore.AnalysisCollection)
	documents := store.NewDocumentStore(db, embedder, cfg.VectorStore.DocumentCollection,
		cfg.Ingestion.BatchSize, cfg.Ingestion.Concurrency)

	pipeline := ingest.NewPipeline(
		extract.NewRegistry(),
		rag.NewChunker(rag.ChunkerConfig{
			Size:    cfg.Ingestion.ChunkSize,
			Overlap: cfg.Ingestion.ChunkOverlap,
		}),
		documents,
	)

	toolRegistry := tools.NewToolRegistry()
	for _, tool := range []tools.Tool{
		tools.NewProcessDocumentTool(pipeline),
		tools.NewTranscriptTool(youtube.NewClient()),
		tools.NewStoreAnalysisTool(analyses),
		tools.NewRetrieveAnalysisTool(analyses),
	} {
		if err := toolRegistry.RegisterTool(tool); err != nil {
			return nil, err
		}
	}

	rt := &Runtime{
		cfg:       cfg,
		llms:      llmRegistry,
		db:        db,
		embedder:  embedder,
		analyses:  analyses,
		documents: documents,
	}

	summarizerLLM, err := rt.agentLLM(agents.SummarizerAgentName)
	if err != nil {
		return nil, err
	}
	pyqLLM, err := rt.agentLLM(agents.PYQSyllabusAnalysisName)
	if err != nil {
		return nil, err
	}
	videoLLM, err := rt.agentLLM(agents.YoutubeVideoSummarizerName)
	if err != nil {
		return nil, err
	}

	agentRegistry := graph.NewAgentRegistry()
	workers := []graph.Agent{
		agents.NewDocumentIngestionAgent(toolRegistry),
		agents.NewSummarizerAgent(summarizerLLM, toolRegistry,
			rt.agentInstruction(agents.SummarizerAgentName)),
		agents.NewPYQSyllabusAnalysisAgent(pyqLLM, toolRegistry,
			rt.agentInstruction(agents.PYQSyllabusAnalysisName)),
		agents.NewYoutubeVideoSummarizerAgent(videoLLM, toolRegistry,
			rt.agentInstruction(agents.YoutubeVideoSummarizerName)),
		agents.NewStoreAnalysisAgent(toolRegistry),
	}
	for _, worker := range workers {
		if err := agentRegistry.RegisterAgent(worker); err != nil {
			return nil, err
		}
	}

	supervisorLLM, ok := llmRegistry.Get(cfg.Orchestrator.SupervisorLLM)
	if !ok {
		return nil, fmt.Errorf("supervisor references unknown llm '%s'", cfg.Orchestrator.SupervisorLLM)
	}
	supervisor := agents.NewSupervisor(supervisorLLM, rt.agentInstruction(graph.SupervisorName))

	orchestrator, err := graph.NewOrchestrator(supervisor, agentRegistry, cfg.Orchestrator.MaxSteps)
	if err != nil {
		return nil, err
	}
	rt.orchestrator = orchestrator

	qaLLM, ok := llmRegistry.Get(cfg.QA.LLM)
	if !ok {
		return nil, fmt.Errorf("qa references unknown llm '%s'", cfg.QA.LLM)
	}
	rt.qa = agents.NewQAAgent(qaLLM, analyses, documents,
		rt.agentInstruction("qa"), cfg.QA.TopK, cfg.QA.MaxHistory)

	slog.Info("Runtime assembled",
		"llms", len(cfg.LLMs),
		"agents", agentRegistry.Count(),
		"max_steps", cfg.Orchestrator.MaxSteps,
		"vector_store", cfg.VectorStore.Provider)

	return rt, nil
}

// agentLLM resolves the provider for a worker agent, falling back to the
// "default" provider. The implicit fallback is not covered by config
// validation, so an unresolvable name is an error here rather than a nil
// provider mid-run.
func (rt *Runtime) agentLLM(agentName string) (llms.LLMProvider, error) {
	name := "default"
	if agentCfg, ok := rt.cfg.Agents[agentName]; ok && agentCfg.LLM != "" {
		name = agentCfg.LLM
	}
	provider, ok := rt.llms.Get(name)
	if !ok {
		return nil, fmt.Errorf("agent '%s' references unknown llm '%s'", agentName, name)
	}
	return provider, nil
}

func (rt *Runtime) agentInstruction(agentName string) string {
	if agentCfg, ok := rt.cfg.Agents[agentName]; ok {
		return agentCfg.Instruction
	}
	return ""
}

// Run seeds and executes one orchestration pass over the given input: a
// YouTube link starts the video path, anything else is treated as a file
// upload.
func (rt *Runtime) Run(ctx context.Context, input string) (*graph.ExecutionState, error) {
	var seed graph.Message
	if youtube.IsVideoURL(input) {
		seed = agents.VideoSeed(input)
	} else {
		seed = agents.FileSeed(input)
	}
	return rt.orchestrator.Run(ctx, seed)
}

// Answer answers a question directly against the stores, outside the graph.
func (rt *Runtime) Answer(ctx context.Context, question string) (string, error) {
	return rt.qa.Answer(ctx, question)
}

// Search runs a raw similarity query over stored analyses.
func (rt *Runtime) Search(ctx context.Context, query string, k int, filter map[string]interface{}) *store.RetrievalResult {
	return rt.analyses.Retrieve(ctx, query, k, filter)
}

// Close releases providers and flushes the vector store.
func (rt *Runtime) Close() error {
	var firstErr error
	if err := rt.llms.Close(); err != nil {
		firstErr = err
	}
	if err := rt.embedder.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := rt.db.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}
