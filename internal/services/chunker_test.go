package services

import (
	"strings"
	"testing"
)

func TestChunkText_ShortTextSingleChunk(t *testing.T) {
	chunker := NewTextChunker()

	text := "Desarrollador backend con cinco años de experiencia en Go y Python."
	chunks := chunker.ChunkText(text, DefaultChunkSize, DefaultChunkOverlap)

	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0] != text {
		t.Fatalf("short text should survive chunking unchanged, got %q", chunks[0])
	}
}

func TestChunkText_EmptyText(t *testing.T) {
	chunker := NewTextChunker()

	if chunks := chunker.ChunkText("", DefaultChunkSize, DefaultChunkOverlap); len(chunks) != 0 {
		t.Fatalf("expected no chunks for empty text, got %d", len(chunks))
	}
	if chunks := chunker.ChunkText("\n\n \n\n", DefaultChunkSize, DefaultChunkOverlap); len(chunks) != 0 {
		t.Fatalf("expected no chunks for whitespace text, got %d", len(chunks))
	}
}

func TestChunkText_SplitsLongText(t *testing.T) {
	chunker := NewTextChunker()

	var sb strings.Builder
	for i := 0; i < 30; i++ {
		sb.WriteString("Experiencia profesional desarrollando servicios distribuidos en la nube.\n\n")
	}

	chunks := chunker.ChunkText(sb.String(), 200, 50)

	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i, chunk := range chunks {
		if len(chunk) > 200+50 {
			t.Fatalf("chunk %d too large: %d chars", i, len(chunk))
		}
	}
}

func TestChunkText_OverlapCarriesText(t *testing.T) {
	chunker := NewTextChunker()

	var sb strings.Builder
	for i := 0; i < 20; i++ {
		sb.WriteString("Responsable de la arquitectura de microservicios del equipo.\n\n")
	}

	chunks := chunker.ChunkText(sb.String(), 150, 40)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}

	// Each chunk after the first should start with the tail of its
	// predecessor.
	for i := 1; i < len(chunks); i++ {
		tail := getLastNChars(chunks[i-1], 40)
		if !strings.HasPrefix(chunks[i], tail) {
			t.Fatalf("chunk %d does not carry overlap from chunk %d", i, i-1)
		}
	}
}

func TestChunkText_OversizedParagraphFallsBackToSentences(t *testing.T) {
	chunker := NewTextChunker()

	// One paragraph, many sentences, no blank lines.
	text := strings.Repeat("Diseño de APIs REST con Fiber. ", 40)

	chunks := chunker.ChunkText(text, 200, 0)
	if len(chunks) < 2 {
		t.Fatalf("expected the oversized paragraph to split, got %d chunks", len(chunks))
	}
}

func TestChunkText_DefaultsForInvalidParams(t *testing.T) {
	chunker := NewTextChunker()

	text := "Un texto corto."
	chunks := chunker.ChunkText(text, 0, -5)

	if len(chunks) != 1 || chunks[0] != text {
		t.Fatalf("invalid params should fall back to defaults, got %v", chunks)
	}
}

func TestGetLastNChars(t *testing.T) {
	if got := getLastNChars("programación", 4); got != "ción" {
		t.Fatalf("expected rune-aware tail, got %q", got)
	}
	if got := getLastNChars("abc", 10); got != "abc" {
		t.Fatalf("expected whole string when shorter than n, got %q", got)
	}
	if got := getLastNChars("abc", 0); got != "" {
		t.Fatalf("expected empty string for n=0, got %q", got)
	}
}
