package services

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strconv"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
)

// CacheEntry is one sentence embedding stored under its content key.
type CacheEntry struct {
	Key      string
	Sentence string
	Vector   []float32
}

// EmbeddingCache stores sentence embeddings keyed by EmbeddingKey.
type EmbeddingCache interface {
	InitCollection(ctx context.Context) error
	Lookup(ctx context.Context, keys []string) (map[string][]float32, error)
	Store(ctx context.Context, model string, entries []CacheEntry) error
}

// EmbeddingKey derives a stable point ID from the model and sentence.
func EmbeddingKey(model, sentence string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(model+"\x00"+sentence)).String()
}

type qdrantEmbeddingCache struct {
	client         *qdrant.Client
	collectionName string
	vectorSize     uint64
}

func NewQdrantEmbeddingCache(urlStr, apiKey, collectionName string, vectorSize uint64) (EmbeddingCache, error) {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid Qdrant URL: %w", err)
	}

	host := parsed.Hostname()
	useTLS := parsed.Scheme == "https"

	// gRPC port by default
	port := 6334
	if p := parsed.Port(); p != "" {
		if v, err := strconv.Atoi(p); err == nil {
			port = v
		}
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   host,
		Port:   port,
		APIKey: apiKey,
		UseTLS: useTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}

	return &qdrantEmbeddingCache{
		client:         client,
		collectionName: collectionName,
		vectorSize:     vectorSize,
	}, nil
}

// InitCollection implements EmbeddingCache.
func (q *qdrantEmbeddingCache) InitCollection(ctx context.Context) error {
	exists, err := q.client.CollectionExists(ctx, q.collectionName)
	if err != nil {
		return fmt.Errorf("failed to check collection: %w", err)
	}

	if exists {
		log.Println("✅ Collection already exists")
		return nil
	}

	err = q.client.CreateCollection(ctx, &qdrant.CreateCollection{
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

// Lookup implements EmbeddingCache.
func (q *qdrantEmbeddingCache) Lookup(ctx context.Context, keys []string) (map[string][]float32, error) {
	found := make(map[string][]float32)
	if len(keys) == 0 {
		return found, nil
	}

	ids := make([]*qdrant.PointId, 0, len(keys))
	for _, key := range keys {
		ids = append(ids, qdrant.NewID(key))
	}

	points, err := q.client.Get(ctx, &qdrant.GetPoints{
		CollectionName: q.collectionName,
		Ids:            ids,
		WithVectors:    qdrant.NewWithVectors(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get points: %w", err)
	}

	for _, point := range points {
		vector := denseVector(point.GetVectors())
		if len(vector) == 0 {
			continue
		}
		found[point.GetId().GetUuid()] = vector
	}

	return found, nil
}

// Store implements EmbeddingCache.
func (q *qdrantEmbeddingCache) Store(ctx context.Context, model string, entries []CacheEntry) error {
	if len(entries) == 0 {
		return nil
	}

	points := make([]*qdrant.PointStruct, 0, len(entries))
	for _, entry := range entries {
		points = append(points, &qdrant.PointStruct{
			Id:      qdrant.NewID(entry.Key),
			Vectors: qdrant.NewVectors(entry.Vector...),
			Payload: qdrant.NewValueMap(map[string]interface{}{
				"model":    model,
				"sentence": entry.Sentence,
			}),
		})
	}

	_, err := q.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: q.collectionName,
		Points:         points,
	})
	if err != nil {
		return fmt.Errorf("failed to upsert points: %w", err)
	}

	return nil
}

func denseVector(vectors *qdrant.VectorsOutput) []float32 {
	out := vectors.GetVector()
	if out == nil {
		return nil
	}
	if dense := out.GetDense(); dense != nil {
		return dense.GetData()
	}
	return out.GetData()
}

type cachedEmbedder struct {
	next  Embedder
	cache EmbeddingCache
	model string
}

// NewCachedEmbedder serves embeddings from cache when present and stores
// fresh ones. Cache failures are logged and never fail the call.
func NewCachedEmbedder(next Embedder, cache EmbeddingCache, model string) Embedder {
	return &cachedEmbedder{
		next:  next,
		cache: cache,
		model: model,
	}
}

// EmbedSentences implements Embedder.
func (c *cachedEmbedder) EmbedSentences(ctx context.Context, sentences []string) ([][]float32, error) {
	keys := make([]string, len(sentences))
	for i, s := range sentences {
		keys[i] = EmbeddingKey(c.model, s)
	}

	found, err := c.cache.Lookup(ctx, keys)
	if err != nil {
		log.Printf("⚠️  Embedding cache lookup failed: %v\n", err)
		found = nil
	}

	vectors := make([][]float32, len(sentences))
	var missing []int
	for i, key := range keys {
		if v, ok := found[key]; ok {
			vectors[i] = v
			continue
		}
		missing = append(missing, i)
	}

	if len(missing) == 0 {
		return vectors, nil
	}

	texts := make([]string, len(missing))
	for j, i := range missing {
		texts[j] = sentences[i]
	}

	fresh, err := c.next.EmbedSentences(ctx, texts)
	if err != nil {
		return nil, err
	}
	if len(fresh) != len(missing) {
		return nil, fmt.Errorf("expected %d embeddings, got %d", len(missing), len(fresh))
	}

	entries := make([]CacheEntry, 0, len(missing))
	for j, i := range missing {
		vectors[i] = fresh[j]
		entries = append(entries, CacheEntry{Key: keys[i], Sentence: sentences[i], Vector: fresh[j]})
	}

	if err := c.cache.Store(ctx, c.model, entries); err != nil {
		log.Printf("⚠️  Embedding cache store failed: %v\n", err)
	}

	return vectors, nil
}
