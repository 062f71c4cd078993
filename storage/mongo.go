package storage

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type MongoRegistry struct {
	client  *mongo.Client
	tickets *mongo.Collection
}

func OpenMongo(uri, db string) (*MongoRegistry, error) {
	if uri == "" || db == "" {
		return nil, fmt.Errorf("database.mongodb.uri and database.mongodb.database must be set in config.json to use driver=mongodb")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("ping: %w", err)
	}

	coll := client.Database(db).Collection("tickets")
	coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "channel_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "owner_id", Value: 1}},
	})

	log.Printf("[DB] MongoDB ticket registry initialised (%s)", db)
	return &MongoRegistry{client: client, tickets: coll}, nil
}

func (m *MongoRegistry) RecordOwner(t Ticket) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := m.tickets.InsertOne(ctx, t)
	return err
}

func (m *MongoRegistry) Get(channelID string) (*Ticket, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var t Ticket
	err := m.tickets.FindOne(ctx, bson.M{"channel_id": channelID}).Decode(&t)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (m *MongoRegistry) SetClaimant(channelID, userID string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	res, err := m.tickets.UpdateOne(ctx,
		bson.M{"channel_id": channelID},
		bson.M{"$set": bson.M{"claimant_id": userID}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("no open ticket for channel %s", channelID)
	}
	return nil
}

func (m *MongoRegistry) ClearClaimant(channelID string) error {
	return m.SetClaimant(channelID, "")
}

func (m *MongoRegistry) Remove(channelID string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := m.tickets.DeleteOne(ctx, bson.M{"channel_id": channelID})
	return err
}

func (m *MongoRegistry) CountOpenFor(userID string) (int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	n, err := m.tickets.CountDocuments(ctx, bson.M{"owner_id": userID})
	return int(n), err
}

func (m *MongoRegistry) ListOpen() ([]Ticket, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := m.tickets.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "channel_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var tickets []Ticket
	return tickets, cursor.All(ctx, &tickets)
}

func (m *MongoRegistry) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return m.client.Disconnect(ctx)
}
