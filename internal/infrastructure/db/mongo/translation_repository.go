package mongo

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/jandrly/kancl/internal/core/domain"
)

const collectionTranslations = "translations"

// TranslationRepository keeps one document per locale. Keys such as
// "common.save" contain dots, so the map is stored as an array of pairs
// instead of a sub-document.
type TranslationRepository struct {
	col *mongo.Collection
}

func NewTranslationRepository(db *mongo.Database) *TranslationRepository {
	return &TranslationRepository{col: db.Collection(collectionTranslations)}
}

type translationEntry struct {
	Key   string `bson:"key"`
	Value string `bson:"value"`
}

type mongoTranslation struct {
	Locale  string             `bson:"locale"`
	Entries []translationEntry `bson:"entries"`
}

func entriesFromMap(m map[string]string) []translationEntry {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]translationEntry, 0, len(keys))
	for _, k := range keys {
		out = append(out, translationEntry{Key: k, Value: m[k]})
	}
	return out
}

func (m mongoTranslation) toDomain() *domain.Translation {
	t := &domain.Translation{Locale: m.Locale, Translations: make(map[string]string, len(m.Entries))}
	for _, e := range m.Entries {
		t.Translations[e.Key] = e.Value
	}
	return t
}

func (r *TranslationRepository) FindByLocale(ctx context.Context, locale string) (*domain.Translation, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc mongoTranslation
	if err := r.col.FindOne(ctx, bson.M{"locale": locale}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTranslationNotFound
		}
		return nil, fmt.Errorf("find translations: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *TranslationRepository) Locales(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cursor, err := r.col.Find(ctx, bson.M{},
		options.Find().
			SetProjection(bson.M{"locale": 1}).
			SetSort(bson.D{{Key: "_id", Value: 1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("find locales: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []struct {
		Locale string `bson:"locale"`
	}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode locales: %w", err)
	}

	locales := make([]string, 0, len(docs))
	for _, d := range docs {
		locales = append(locales, d.Locale)
	}
	return locales, nil
}

// UpsertKey merges one pair in a single pipeline update: drop any existing
// entry for key, then append the new one.
func (r *TranslationRepository) UpsertKey(ctx context.Context, locale, key, value string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: "locale", Value: locale},
			{Key: "entries", Value: bson.D{{Key: "$concatArrays", Value: bson.A{
				bson.D{{Key: "$filter", Value: bson.D{
					{Key: "input", Value: bson.D{{Key: "$ifNull", Value: bson.A{"$entries", bson.A{}}}}},
					{Key: "cond", Value: bson.D{{Key: "$ne", Value: bson.A{"$$this.key", bson.D{{Key: "$literal", Value: key}}}}}},
				}}},
				bson.A{bson.D{
					{Key: "key", Value: bson.D{{Key: "$literal", Value: key}}},
					{Key: "value", Value: bson.D{{Key: "$literal", Value: value}}},
				}},
			}}}},
		}}},
	}

	opts := options.Update().SetUpsert(true)
	_, err := r.col.UpdateOne(ctx, bson.M{"locale": locale}, pipeline, opts)
	if mongo.IsDuplicateKeyError(err) {
		// Lost an insert race on the unique locale index; the document exists now.
		_, err = r.col.UpdateOne(ctx, bson.M{"locale": locale}, pipeline, opts)
	}
	if err != nil {
		return fmt.Errorf("upsert translation: %w", err)
	}
	return nil
}

func (r *TranslationRepository) Replace(ctx context.Context, locale string, entries map[string]string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoTranslation{Locale: locale, Entries: entriesFromMap(entries)}
	_, err := r.col.ReplaceOne(ctx, bson.M{"locale": locale}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("replace translations: %w", err)
	}
	return nil
}
