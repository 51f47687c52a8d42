package store

import (
	"context"
	"errors"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/nelnel19/BAHA-ALERT/database"
	"github.com/nelnel19/BAHA-ALERT/models"
)

const opTimeout = 8 * time.Second

// MongoReports implements ReportStore over the flood_reports collection.
type MongoReports struct{}

func NewMongoReports() *MongoReports { return &MongoReports{} }

func (s *MongoReports) col() *mongo.Collection { return database.Col(database.ColFloodReports) }

func (s *MongoReports) Insert(ctx context.Context, r models.FloodReport) (models.FloodReport, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := s.col().InsertOne(ctx, r)
	if err != nil {
		return models.FloodReport{}, err
	}
	r.ID = res.InsertedID.(primitive.ObjectID)
	return r, nil
}

func (s *MongoReports) All(ctx context.Context) ([]models.FloodReport, error) {
	return s.find(ctx, bson.M{})
}

func (s *MongoReports) Find(ctx context.Context, f ReportFilter) ([]models.FloodReport, error) {
	filter := bson.M{}
	if f.ReporterName != "" {
		filter["reporterName"] = primitive.Regex{Pattern: regexp.QuoteMeta(f.ReporterName), Options: "i"}
	}
	if f.ContactNumber != "" {
		filter["contactNumber"] = f.ContactNumber
	}
	return s.find(ctx, filter)
}

func (s *MongoReports) find(ctx context.Context, filter bson.M) ([]models.FloodReport, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := s.col().Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	reports := []models.FloodReport{}
	if err := cur.All(ctx, &reports); err != nil {
		return nil, err
	}
	return reports, nil
}

func (s *MongoReports) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	return s.col().CountDocuments(ctx, bson.M{})
}

func (s *MongoReports) Update(ctx context.Context, id string, p ReportPatch) (models.FloodReport, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.FloodReport{}, ErrNotFound
	}

	set := bson.M{}
	setIf(set, "reporterName", p.ReporterName)
	setIf(set, "contactNumber", p.ContactNumber)
	setIf(set, "location", p.Location)
	setIf(set, "description", p.Description)
	setIf(set, "dangerLevel", p.DangerLevel)
	setIf(set, "imageUrl", p.ImageURL)
	setIf(set, "imagePublicId", p.ImagePublicID)

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var updated models.FloodReport
	res := s.col().FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After))
	if err := res.Decode(&updated); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.FloodReport{}, ErrNotFound
		}
		return models.FloodReport{}, err
	}
	return updated, nil
}

func (s *MongoReports) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := s.col().DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// MongoSchedules implements ScheduleStore over the lgu_schedules collection.
type MongoSchedules struct{}

func NewMongoSchedules() *MongoSchedules { return &MongoSchedules{} }

func (s *MongoSchedules) col() *mongo.Collection { return database.Col(database.ColLguSchedules) }

func (s *MongoSchedules) Insert(ctx context.Context, sc models.LguSchedule) (models.LguSchedule, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := s.col().InsertOne(ctx, sc)
	if err != nil {
		return models.LguSchedule{}, err
	}
	sc.ID = res.InsertedID.(primitive.ObjectID)
	return sc, nil
}

func (s *MongoSchedules) AllByDate(ctx context.Context) ([]models.LguSchedule, error) {
	return s.find(ctx, bson.D{{Key: "date", Value: 1}})
}

func (s *MongoSchedules) AllByCreated(ctx context.Context) ([]models.LguSchedule, error) {
	return s.find(ctx, bson.D{{Key: "createdAt", Value: -1}})
}

func (s *MongoSchedules) find(ctx context.Context, sort bson.D) ([]models.LguSchedule, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	cur, err := s.col().Find(ctx, bson.M{}, options.Find().SetSort(sort))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	schedules := []models.LguSchedule{}
	if err := cur.All(ctx, &schedules); err != nil {
		return nil, err
	}
	return schedules, nil
}

func (s *MongoSchedules) Get(ctx context.Context, id string) (models.LguSchedule, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.LguSchedule{}, ErrNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var sc models.LguSchedule
	if err := s.col().FindOne(ctx, bson.M{"_id": oid}).Decode(&sc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.LguSchedule{}, ErrNotFound
		}
		return models.LguSchedule{}, err
	}
	return sc, nil
}

func (s *MongoSchedules) Update(ctx context.Context, id string, p SchedulePatch) (models.LguSchedule, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.LguSchedule{}, ErrNotFound
	}

	set := bson.M{}
	setIf(set, "title", p.Title)
	setIf(set, "description", p.Description)
	setIf(set, "category", p.Category)
	setIf(set, "location", p.Location)
	setIf(set, "imageUrl", p.ImageURL)
	setIf(set, "imagePublicId", p.ImagePublicID)
	if p.Date != nil {
		set["date"] = *p.Date
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var updated models.LguSchedule
	res := s.col().FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After))
	if err := res.Decode(&updated); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.LguSchedule{}, ErrNotFound
		}
		return models.LguSchedule{}, err
	}
	return updated, nil
}

func (s *MongoSchedules) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := s.col().DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoSchedules) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	return s.col().CountDocuments(ctx, bson.M{})
}

// MongoUsers implements UserStore over the users collection.
type MongoUsers struct{}

func NewMongoUsers() *MongoUsers { return &MongoUsers{} }

func (s *MongoUsers) col() *mongo.Collection { return database.Col(database.ColUsers) }

func (s *MongoUsers) Insert(ctx context.Context, u models.User) (models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := s.col().InsertOne(ctx, u)
	if err != nil {
		return models.User{}, err
	}
	u.ID = res.InsertedID.(primitive.ObjectID)
	return u, nil
}

func (s *MongoUsers) FindByEmail(ctx context.Context, email string) (models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var u models.User
	if err := s.col().FindOne(ctx, bson.M{"email": email}).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, err
	}
	return u, nil
}

func (s *MongoUsers) Update(ctx context.Context, id string, p UserPatch) (models.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.User{}, ErrNotFound
	}

	set := bson.M{"updatedAt": time.Now().UTC()}
	setIf(set, "name", p.Name)
	setIf(set, "password", p.Password)
	setIf(set, "contactNumber", p.ContactNumber)
	setIf(set, "profileImage", p.ProfileImage)
	if p.Age != nil {
		set["age"] = *p.Age
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var updated models.User
	res := s.col().FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After))
	if err := res.Decode(&updated); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, err
	}
	return updated, nil
}

func (s *MongoUsers) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := s.col().DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func setIf(set bson.M, key string, v *string) {
	if v != nil {
		set[key] = *v
	}
}
