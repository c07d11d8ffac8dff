// Package graphview mirrors the reconciled entity graph into Neo4j so the
// car/model/article relationships can be explored with Cypher.
package graphview

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/autoblogdata/autobot/engine/store"
)

// Sync pushes SQLite state into Neo4j. The SQLite store stays the source of
// truth; the mirror is rebuilt incrementally with MERGE so re-syncs are
// idempotent.
type Sync struct {
	driver neo4j.DriverWithContext
	store  *store.Store
	log    *slog.Logger
}

// New creates a Sync.
func New(driver neo4j.DriverWithContext, s *store.Store, log *slog.Logger) *Sync {
	if log == nil {
		log = slog.Default()
	}
	return &Sync{driver: driver, store: s, log: log}
}

// Run mirrors models, cars, similar-car edges, and article links.
func (g *Sync) Run(ctx context.Context) error {
	if err := g.syncModels(ctx); err != nil {
		return fmt.Errorf("sync models: %w", err)
	}
	if err := g.syncCars(ctx); err != nil {
		return fmt.Errorf("sync cars: %w", err)
	}
	if err := g.syncSimilarEdges(ctx); err != nil {
		return fmt.Errorf("sync similar edges: %w", err)
	}
	if err := g.syncArticleEdges(ctx); err != nil {
		return fmt.Errorf("sync article edges: %w", err)
	}
	g.log.Info("graph view synced")
	return nil
}

func (g *Sync) syncModels(ctx context.Context) error {
	models, err := g.store.CarModels(ctx)
	if err != nil {
		return err
	}

	sess := g.driver.NewSession(ctx, neo4j.SessionConfig{})
	defer sess.Close(ctx)

	_, err = sess.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		for _, m := range models {
			cypher := `MERGE (n:CarModel {id: $id}) SET n.make = $make, n.model = $model`
			if _, err := tx.Run(ctx, cypher, map[string]any{
				"id": m.ID, "make": m.Make, "model": m.Model,
			}); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	return err
}

func (g *Sync) syncCars(ctx context.Context) error {
	cars, err := g.store.GraphCars(ctx)
	if err != nil {
		return err
	}

	sess := g.driver.NewSession(ctx, neo4j.SessionConfig{})
	defer sess.Close(ctx)

	_, err = sess.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		for _, c := range cars {
			cypher := `MERGE (n:Car {id: $id})
				 SET n.variant = $variant, n.full_model_name = $name, n.launch_id = $launch`
			if _, err := tx.Run(ctx, cypher, map[string]any{
				"id": c.ID, "variant": c.Variant,
				"name": c.FullModelName, "launch": c.LaunchID,
			}); err != nil {
				return nil, err
			}
			if c.CarModelID == 0 {
				continue
			}
			edge := `MATCH (c:Car {id: $car}), (m:CarModel {id: $model})
				 MERGE (c)-[:VARIANT_OF]->(m)`
			if _, err := tx.Run(ctx, edge, map[string]any{
				"car": c.ID, "model": c.CarModelID,
			}); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	return err
}

func (g *Sync) syncSimilarEdges(ctx context.Context) error {
	edges, err := g.store.SimilarCarEdges(ctx)
	if err != nil {
		return err
	}

	sess := g.driver.NewSession(ctx, neo4j.SessionConfig{})
	defer sess.Close(ctx)

	_, err = sess.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		for _, e := range edges {
			cypher := `MATCH (a:Car {id: $from}), (b:Car {id: $to})
				 MERGE (a)-[:SIMILAR_TO]->(b)`
			if _, err := tx.Run(ctx, cypher, map[string]any{
				"from": e.LaunchCarID, "to": e.SimilarCarID,
			}); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	return err
}

func (g *Sync) syncArticleEdges(ctx context.Context) error {
	edges, err := g.store.CarArticleEdges(ctx)
	if err != nil {
		return err
	}

	sess := g.driver.NewSession(ctx, neo4j.SessionConfig{})
	defer sess.Close(ctx)

	_, err = sess.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		for _, e := range edges {
			cypher := `MERGE (a:Article {id: $article})
				 WITH a
				 MATCH (c:Car {id: $car})
				 MERGE (a)-[:ABOUT]->(c)`
			if _, err := tx.Run(ctx, cypher, map[string]any{
				"article": e.ArticleID, "car": e.CarID,
			}); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	return err
}
