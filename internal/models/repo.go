package models

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

var Validate = validator.New()

// Neo4jRepo is the graph store behind users, swipes, matches, messages,
// photos, blocks, reports and interests.
type Neo4jRepo struct {
	driver   neo4j.DriverWithContext
	database string
}

func Neo4jNewRepo(driver neo4j.DriverWithContext, database string) *Neo4jRepo {
	return &Neo4jRepo{
		driver:   driver,
		database: database,
	}
}

func (r *Neo4jRepo) session(ctx context.Context, mode neo4j.AccessMode) neo4j.SessionWithContext {
	return r.driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   mode,
		DatabaseName: r.database,
	})
}

// read runs a single read query and collects every record.
func (r *Neo4jRepo) read(ctx context.Context, query string, params map[string]interface{}) ([]*neo4j.Record, error) {
	session := r.session(ctx, neo4j.AccessModeRead)
	defer session.Close(ctx)

	result, err := session.Run(ctx, query, params)
	if err != nil {
		return nil, err
	}
	return result.Collect(ctx)
}

// write runs a single write query and collects every record.
func (r *Neo4jRepo) write(ctx context.Context, query string, params map[string]interface{}) ([]*neo4j.Record, error) {
	session := r.session(ctx, neo4j.AccessModeWrite)
	defer session.Close(ctx)

	result, err := session.Run(ctx, query, params)
	if err != nil {
		return nil, err
	}
	return result.Collect(ctx)
}

type statement struct {
	query  string
	params map[string]interface{}
}

// writeTx runs the statements in one managed transaction and returns the
// records of the last one.
func (r *Neo4jRepo) writeTx(ctx context.Context, stmts ...statement) ([]*neo4j.Record, error) {
	session := r.session(ctx, neo4j.AccessModeWrite)
	defer session.Close(ctx)

	out, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		var records []*neo4j.Record
		for _, stmt := range stmts {
			result, err := tx.Run(ctx, stmt.query, stmt.params)
			if err != nil {
				return nil, err
			}
			records, err = result.Collect(ctx)
			if err != nil {
				return nil, err
			}
		}
		return records, nil
	})
	if err != nil {
		return nil, err
	}
	records, _ := out.([]*neo4j.Record)
	return records, nil
}

// EnsureConstraints creates the uniqueness constraints the store relies on.
func (r *Neo4jRepo) EnsureConstraints(ctx context.Context) error {
	constraints := []string{
		"CREATE CONSTRAINT user_id_unique IF NOT EXISTS FOR (u:User) REQUIRE u.user_id IS UNIQUE",
		"CREATE CONSTRAINT user_email_unique IF NOT EXISTS FOR (u:User) REQUIRE u.email IS UNIQUE",
		"CREATE CONSTRAINT message_id_unique IF NOT EXISTS FOR (m:Message) REQUIRE m.message_id IS UNIQUE",
		"CREATE CONSTRAINT photo_id_unique IF NOT EXISTS FOR (p:Photo) REQUIRE p.photo_id IS UNIQUE",
		"CREATE CONSTRAINT report_id_unique IF NOT EXISTS FOR (r:Report) REQUIRE r.report_id IS UNIQUE",
		"CREATE CONSTRAINT interest_id_unique IF NOT EXISTS FOR (i:Interest) REQUIRE i.interest_id IS UNIQUE",
		"CREATE INDEX message_match_idx IF NOT EXISTS FOR (m:Message) ON (m.match_id)",
		"CREATE INDEX photo_user_idx IF NOT EXISTS FOR (p:Photo) ON (p.user_id)",
	}
	for _, c := range constraints {
		if _, err := r.write(ctx, c, nil); err != nil {
			return fmt.Errorf("error creating constraint: %w", err)
		}
	}
	return nil
}

type MongodbRepo struct {
	mongodbClient *mongo.Client
	database      string
}

func MongodbNewRepo(mongodbClient *mongo.Client, database string) *MongodbRepo {
	return &MongodbRepo{
		mongodbClient: mongodbClient,
		database:      database,
	}
}

func (mdb *MongodbRepo) GetCollection(colName string) (*mongo.Collection, error) {
	if mdb.mongodbClient == nil {
		return nil, fmt.Errorf("mongodb client is not initialized")
	}
	return mdb.mongodbClient.Database(mdb.database).Collection(colName), nil
}

type RedisRepo struct {
	client *redis.Client
}

func RedisNewRepo(client *redis.Client) *RedisRepo {
	return &RedisRepo{client: client}
}

var (
	_ UserRepo        = (*Neo4jRepo)(nil)
	_ SwipeRepo       = (*Neo4jRepo)(nil)
	_ MatchRepo       = (*Neo4jRepo)(nil)
	_ MessageRepo     = (*Neo4jRepo)(nil)
	_ PhotoRepo       = (*Neo4jRepo)(nil)
	_ BlockRepo       = (*Neo4jRepo)(nil)
	_ InterestRepo    = (*Neo4jRepo)(nil)
	_ AdminRepo       = (*Neo4jRepo)(nil)
	_ ResetCodeRepo   = (*MongodbRepo)(nil)
	_ RateWindowStore = (*RedisRepo)(nil)
)
