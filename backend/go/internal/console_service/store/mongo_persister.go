package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	projectsCollection  = "projects"
	foldersCollection   = "folders"
	documentsCollection = "documents"
)

// MongoPersister stores the console entities in MongoDB. Commits run inside a
// multi-document transaction, so the server must be a replica set.
type MongoPersister struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewMongoPersister creates a new MongoPersister.
func NewMongoPersister(client *mongo.Client, database string) *MongoPersister {
	return &MongoPersister{client: client, db: client.Database(database)}
}

// EnsureIndexes creates the owner lookup indexes.
func (p *MongoPersister) EnsureIndexes(ctx context.Context) error {
	if _, err := p.db.Collection(foldersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "project_id", Value: 1}},
	}); err != nil {
		return err
	}
	_, err := p.db.Collection(documentsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "folder_id", Value: 1}},
	})
	return err
}

// Load reads every collection sorted by creation time.
func (p *MongoPersister) Load(ctx context.Context) (*Snapshot, error) {
	snap := &Snapshot{}
	if err := p.findAll(ctx, projectsCollection, &snap.Projects); err != nil {
		return nil, err
	}
	if err := p.findAll(ctx, foldersCollection, &snap.Folders); err != nil {
		return nil, err
	}
	if err := p.findAll(ctx, documentsCollection, &snap.Documents); err != nil {
		return nil, err
	}
	for _, f := range snap.Folders {
		if f.MetadataParams == nil {
			f.MetadataParams = []string{}
		}
	}
	return snap, nil
}

func (p *MongoPersister) findAll(ctx context.Context, collection string, out interface{}) error {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := p.db.Collection(collection).Find(ctx, bson.M{}, opts)
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)
	return cursor.All(ctx, out)
}

// Commit applies the mutation inside a session transaction.
func (p *MongoPersister) Commit(ctx context.Context, m Mutation) error {
	sess, err := p.client.StartSession()
	if err != nil {
		return err
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		if err := p.deleteMany(sc, documentsCollection, m.DeleteDocuments); err != nil {
			return nil, err
		}
		if err := p.deleteMany(sc, foldersCollection, m.DeleteFolders); err != nil {
			return nil, err
		}
		if err := p.deleteMany(sc, projectsCollection, m.DeleteProjects); err != nil {
			return nil, err
		}
		for _, project := range m.Projects {
			if err := p.replace(sc, projectsCollection, project.ID, project); err != nil {
				return nil, err
			}
		}
		for _, folder := range m.Folders {
			if err := p.replace(sc, foldersCollection, folder.ID, folder); err != nil {
				return nil, err
			}
		}
		for _, doc := range m.Documents {
			if err := p.replace(sc, documentsCollection, doc.ID, doc); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	return err
}

func (p *MongoPersister) deleteMany(ctx context.Context, collection string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := p.db.Collection(collection).DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	return err
}

func (p *MongoPersister) replace(ctx context.Context, collection, id string, doc interface{}) error {
	_, err := p.db.Collection(collection).ReplaceOne(ctx, bson.M{"_id": id}, doc, options.Replace().SetUpsert(true))
	return err
}

var (
	_ Persister = (*MongoPersister)(nil)
	_ Persister = (*GormPersister)(nil)
)
