package services

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"sort"
	"strconv"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"

	"alfredoptarigan/resume-screener/internal/models"
)

const (
	DefaultCollection = "resume_chunks"
	DefaultVectorSize = 768

	excerptChars = 240
)

type Embedder interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

// CandidateIndex stores resume chunk embeddings so that candidates can be
// compared with each other across sessions.
type CandidateIndex interface {
	InitCollection(ctx context.Context) error
	IndexCandidate(ctx context.Context, sessionID, candidateID uuid.UUID, resumeText string) error
	FindSimilar(ctx context.Context, candidateID uuid.UUID, resumeText string, limit int) ([]models.SimilarCandidate, error)
	DeleteSession(ctx context.Context, sessionID uuid.UUID) error
}

// vectorStore is the subset of *qdrant.Client the index uses.
type vectorStore interface {
	CollectionExists(ctx context.Context, collectionName string) (bool, error)
	CreateCollection(ctx context.Context, request *qdrant.CreateCollection) error
	Upsert(ctx context.Context, request *qdrant.UpsertPoints) (*qdrant.UpdateResult, error)
	Query(ctx context.Context, request *qdrant.QueryPoints) ([]*qdrant.ScoredPoint, error)
	Delete(ctx context.Context, request *qdrant.DeletePoints) (*qdrant.UpdateResult, error)
}

type candidateIndex struct {
	store          vectorStore
	embedder       Embedder
	chunker        TextChunker
	collectionName string
	vectorSize     uint64
}

func NewQdrantClient(urlStr, apiKey string) (*qdrant.Client, error) {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid Qdrant URL: %w", err)
	}

	// gRPC port
	port := 6334
	if p := parsed.Port(); p != "" {
		if v, err := strconv.Atoi(p); err == nil {
			port = v
		}
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   parsed.Hostname(),
		Port:   port,
		APIKey: apiKey,
		UseTLS: parsed.Scheme == "https",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}

	return client, nil
}

func NewCandidateIndex(store vectorStore, embedder Embedder, chunker TextChunker, collectionName string, vectorSize uint64) CandidateIndex {
	if collectionName == "" {
		collectionName = DefaultCollection
	}
	if vectorSize == 0 {
		vectorSize = DefaultVectorSize
	}
	return &candidateIndex{
		store:          store,
		embedder:       embedder,
		chunker:        chunker,
		collectionName: collectionName,
		vectorSize:     vectorSize,
	}
}

func (q *candidateIndex) InitCollection(ctx context.Context) error {
	exists, err := q.store.CollectionExists(ctx, q.collectionName)
	if err != nil {
		return fmt.Errorf("failed to check collection: %w", err)
	}

	if exists {
		log.Printf("✅ Qdrant collection '%s' already exists\n", q.collectionName)
		return nil
	}

	err = q.store.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: q.collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     q.vectorSize,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	log.Printf("✅ Qdrant collection '%s' created successfully\n", q.collectionName)
	return nil
}

// IndexCandidate embeds every chunk of the resume. Point ids are derived from
// the candidate id and chunk number, so re-indexing overwrites.
func (q *candidateIndex) IndexCandidate(ctx context.Context, sessionID, candidateID uuid.UUID, resumeText string) error {
	chunks := q.chunker.Chunk(resumeText)
	if len(chunks) == 0 {
		return nil
	}

	points := make([]*qdrant.PointStruct, 0, len(chunks))
	for i, chunk := range chunks {
		embedding, err := q.embedder.GenerateEmbedding(ctx, chunk)
		if err != nil {
			return fmt.Errorf("failed to embed chunk %d of candidate %s: %w", i, candidateID, err)
		}

		points = append(points, &qdrant.PointStruct{
			Id:      qdrant.NewID(chunkPointID(candidateID, i).String()),
			Vectors: qdrant.NewVectors(embedding...),
			Payload: qdrant.NewValueMap(map[string]any{
				"candidate_id": candidateID.String(),
				"session_id":   sessionID.String(),
				"chunk_index":  i,
				"text":         chunk,
			}),
		})
	}

	_, err := q.store.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: q.collectionName,
		Points:         points,
	})
	if err != nil {
		return fmt.Errorf("failed to upsert points: %w", err)
	}

	return nil
}

// FindSimilar returns other candidates whose resume chunks are closest to the
// opening of this candidate's resume, best match per candidate.
func (q *candidateIndex) FindSimilar(ctx context.Context, candidateID uuid.UUID, resumeText string, limit int) ([]models.SimilarCandidate, error) {
	if limit <= 0 {
		limit = 5
	}

	chunks := q.chunker.Chunk(resumeText)
	if len(chunks) == 0 {
		return []models.SimilarCandidate{}, nil
	}

	embedding, err := q.embedder.GenerateEmbedding(ctx, chunks[0])
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	points, err := q.store.Query(ctx, &qdrant.QueryPoints{
		CollectionName: q.collectionName,
		Query:          qdrant.NewQuery(embedding...),
		Filter: &qdrant.Filter{
			MustNot: []*qdrant.Condition{
				qdrant.NewMatch("candidate_id", candidateID.String()),
			},
		},
		// several chunks may belong to the same candidate
		Limit:       qdrant.PtrOf(uint64(limit * 4)),
		WithPayload: qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search: %w", err)
	}

	best := make(map[string]models.SimilarCandidate)
	for _, point := range points {
		payload := point.GetPayload()
		id := payload["candidate_id"].GetStringValue()
		if id == "" {
			continue
		}
		if prev, ok := best[id]; ok && prev.Score >= point.GetScore() {
			continue
		}
		best[id] = models.SimilarCandidate{
			CandidateID: id,
			SessionID:   payload["session_id"].GetStringValue(),
			Score:       point.GetScore(),
			Excerpt:     truncateRunes(payload["text"].GetStringValue(), excerptChars),
		}
	}

	results := make([]models.SimilarCandidate, 0, len(best))
	for _, c := range best {
		results = append(results, c)
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].CandidateID < results[j].CandidateID
	})
	if len(results) > limit {
		results = results[:limit]
	}

	return results, nil
}

func (q *candidateIndex) DeleteSession(ctx context.Context, sessionID uuid.UUID) error {
	_, err := q.store.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: q.collectionName,
		Points: &qdrant.PointsSelector{
			PointsSelectorOneOf: &qdrant.PointsSelector_Filter{
				Filter: &qdrant.Filter{
					Must: []*qdrant.Condition{
						qdrant.NewMatch("session_id", sessionID.String()),
					},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to delete session points: %w", err)
	}
	return nil
}

func chunkPointID(candidateID uuid.UUID, chunk int) uuid.UUID {
	return uuid.NewSHA1(candidateID, []byte(strconv.Itoa(chunk)))
}
