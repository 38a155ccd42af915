// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// EnsureAll is called at startup. Each ensure step is idempotent; errors
// are aggregated so every problem is visible and startup can fail fast.
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	steps := []struct {
		name string
		fn   func(context.Context, *mongo.Database) error
	}{
		{"users", ensureUsers},
		{"schools", ensureSchools},
		{"school_memberships", ensureMemberships},
		{"subjects", ensureSubjects},
		{"classes", ensureClasses},
		{"teacher_profiles", ensureTeacherProfiles},
		{"student_profiles", ensureStudentProfiles},
		{"projects", ensureProjects},
		{"project_goals", ensureProjectGoals},
		{"project_files", ensureProjectFiles},
		{"project_participations", ensureParticipations},
		{"project_participants", ensureParticipants},
		{"project_updates", ensureProjectUpdates},
		{"environmental_impacts", ensureImpacts},
		{"donations", ensureDonations},
		{"certificates", ensureCertificates},
		{"login_nonces", ensureLoginNonces},
		{"email_login_codes", ensureEmailLoginCodes},
	}

	var problems []string
	for _, s := range steps {
		if err := s.fn(ctx, db); err != nil {
			problems = append(problems, s.name+": "+err.Error())
		}
	}
	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

// ensureIndexSet creates the desired indexes for one collection. When an
// index with the same name exists under different options, it is dropped
// and recreated; unique-index creation failing on existing duplicates is
// surfaced as a startup error rather than papered over.
func ensureIndexSet(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel) error {
	var errs []string

	for _, m := range models {
		name := ""
		if m.Options != nil && m.Options.Name != nil {
			name = *m.Options.Name
		}

		_, err := coll.Indexes().CreateOne(ctx, m)
		if err == nil {
			continue
		}

		if isConflictErr(err) && name != "" {
			zap.L().Info("recreating index with changed options",
				zap.String("collection", coll.Name()),
				zap.String("name", name))
			if _, dropErr := coll.Indexes().DropOne(ctx, name); dropErr != nil {
				errs = append(errs, fmt.Sprintf("%s(%s): drop: %v", coll.Name(), name, dropErr))
				continue
			}
			if _, err = coll.Indexes().CreateOne(ctx, m); err == nil {
				continue
			}
		}

		if wafflemongo.IsDup(err) {
			errs = append(errs, fmt.Sprintf("%s(%s): cannot create unique index, duplicates present", coll.Name(), name))
			continue
		}
		errs = append(errs, fmt.Sprintf("%s(%s): %v", coll.Name(), name, err))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

// Mongo and DocumentDB report a same-name/different-options clash with
// one of these conflict codes.
func isConflictErr(err error) bool {
	if err == nil {
		return false
	}
	s := err.Error()
	return strings.Contains(s, "IndexOptionsConflict") ||
		strings.Contains(s, "IndexKeySpecsConflict")
}

func ensureUsers(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("users")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// Email and wallet are unique only when present; OTP and wallet
		// signups leave one of them unset.
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(true).SetName("uniq_users_email"),
		},
		{
			Keys:    bson.D{{Key: "wallet_address", Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(true).SetName("uniq_users_wallet"),
		},
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_users_username"),
		},
		// Search and role-filtered listings.
		{
			Keys:    bson.D{{Key: "full_name_ci", Value: 1}, {Key: "_id", Value: 1}},
			Options: options.Index().SetName("idx_users_fullnameci_id"),
		},
		{
			Keys:    bson.D{{Key: "role", Value: 1}, {Key: "is_active", Value: 1}},
			Options: options.Index().SetName("idx_users_role_active"),
		},
	})
}

func ensureSchools(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("schools")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// One school per (name, city, country), folded.
		{
			Keys: bson.D{
				{Key: "name_ci", Value: 1},
				{Key: "city_ci", Value: 1},
				{Key: "country_ci", Value: 1},
			},
			Options: options.Index().SetUnique(true).SetName("uniq_schools_name_city_country"),
		},
		{
			Keys:    bson.D{{Key: "registration_number", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_schools_regnum"),
		},
		{
			Keys:    bson.D{{Key: "name_ci", Value: 1}, {Key: "_id", Value: 1}},
			Options: options.Index().SetName("idx_schools_nameci_id"),
		},
		{
			Keys:    bson.D{{Key: "admin_id", Value: 1}},
			Options: options.Index().SetName("idx_schools_admin"),
		},
	})
}

func ensureMemberships(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("school_memberships")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// Exactly one row per (user, school); rejoining reactivates it.
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "school_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_memberships_user_school"),
		},
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "is_active", Value: 1}},
			Options: options.Index().SetName("idx_memberships_user_active"),
		},
		{
			Keys:    bson.D{{Key: "school_id", Value: 1}, {Key: "is_active", Value: 1}},
			Options: options.Index().SetName("idx_memberships_school_active"),
		},
	})
}

func ensureSubjects(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("subjects")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_subjects_name"),
		},
	})
}

func ensureClasses(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("classes")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "school_id", Value: 1}, {Key: "name", Value: 1}},
			Options: options.Index().SetName("idx_classes_school_name"),
		},
	})
}

func ensureTeacherProfiles(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("teacher_profiles")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "school_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_teacherprofiles_user_school"),
		},
		{
			Keys:    bson.D{{Key: "join_link", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_teacherprofiles_joinlink"),
		},
	})
}

func ensureStudentProfiles(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("student_profiles")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "school_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_studentprofiles_user_school"),
		},
		{
			Keys:    bson.D{{Key: "school_id", Value: 1}, {Key: "current_class_id", Value: 1}},
			Options: options.Index().SetName("idx_studentprofiles_school_class"),
		},
	})
}

func ensureProjects(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("projects")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "title_ci", Value: 1}, {Key: "_id", Value: 1}},
			Options: options.Index().SetName("idx_projects_titleci_id"),
		},
		{
			Keys:    bson.D{{Key: "lead_school_id", Value: 1}},
			Options: options.Index().SetName("idx_projects_leadschool"),
		},
		{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "is_featured", Value: 1}},
			Options: options.Index().SetName("idx_projects_status_featured"),
		},
		{
			Keys:    bson.D{{Key: "created_by", Value: 1}},
			Options: options.Index().SetName("idx_projects_createdby"),
		},
	})
}

func ensureProjectGoals(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("project_goals")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "project_id", Value: 1}},
			Options: options.Index().SetName("idx_goals_project"),
		},
	})
}

func ensureProjectFiles(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("project_files")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "project_id", Value: 1}},
			Options: options.Index().SetName("idx_files_project"),
		},
	})
}

func ensureParticipations(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("project_participations")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "project_id", Value: 1}, {Key: "school_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_participations_project_school"),
		},
		{
			Keys:    bson.D{{Key: "school_id", Value: 1}, {Key: "is_active", Value: 1}},
			Options: options.Index().SetName("idx_participations_school_active"),
		},
	})
}

func ensureParticipants(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("project_participants")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "project_id", Value: 1}, {Key: "student_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_participants_project_student"),
		},
		{
			Keys:    bson.D{{Key: "student_id", Value: 1}, {Key: "is_active", Value: 1}},
			Options: options.Index().SetName("idx_participants_student_active"),
		},
	})
}

func ensureProjectUpdates(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("project_updates")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "project_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_updates_project_created"),
		},
	})
}

func ensureImpacts(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("environmental_impacts")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "project_id", Value: 1}},
			Options: options.Index().SetName("idx_impacts_project"),
		},
		{
			Keys:    bson.D{{Key: "school_id", Value: 1}},
			Options: options.Index().SetName("idx_impacts_school"),
		},
		{
			Keys:    bson.D{{Key: "impact_type", Value: 1}, {Key: "verified", Value: 1}},
			Options: options.Index().SetName("idx_impacts_type_verified"),
		},
	})
}

func ensureDonations(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("donations")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "payment_status", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_donations_status_created"),
		},
		{
			Keys:    bson.D{{Key: "donor_email", Value: 1}},
			Options: options.Index().SetName("idx_donations_email"),
		},
	})
}

func ensureCertificates(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("certificates")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "verification_code", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_certificates_code"),
		},
		{
			Keys:    bson.D{{Key: "recipient_id", Value: 1}},
			Options: options.Index().SetName("idx_certificates_recipient"),
		},
		{
			Keys:    bson.D{{Key: "issued_by", Value: 1}},
			Options: options.Index().SetName("idx_certificates_issuer"),
		},
	})
}

func ensureLoginNonces(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("login_nonces")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// One outstanding challenge per wallet; a new request replaces it.
		{
			Keys:    bson.D{{Key: "wallet_address", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_nonces_wallet"),
		},
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0).SetName("ttl_nonces_expiry"),
		},
	})
}

func ensureEmailLoginCodes(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("email_login_codes")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_logincodes_email"),
		},
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0).SetName("ttl_logincodes_expiry"),
		},
	})
}
