package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/careerloop/jobfeed/internal/entities"
	"github.com/glebarez/sqlite"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestRepository(t *testing.T) *Jobs {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(entities.Job{}))
	return NewJobsRepository(db)
}

func Test_Search_WhenKeywordHasMetacharacters_ShouldMatchLiterally(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.Add(ctx, &entities.Job{JobID: "1", Title: "Senior C++ Developer"}))
	require.NoError(t, repo.Add(ctx, &entities.Job{JobID: "2", Title: "Senior C Developer"}))
	require.NoError(t, repo.Add(ctx, &entities.Job{JobID: "3", Title: "100% Remote Support Rep"}))
	require.NoError(t, repo.Add(ctx, &entities.Job{JobID: "4", Title: "100 Remote Support Rep"}))

	jobs, err := repo.Search(ctx, NewJobQuery([]string{"C++"}, ""), 0)
	assert.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "Senior C++ Developer", jobs[0].Title)

	jobs, err = repo.Search(ctx, NewJobQuery([]string{"100%"}, ""), 0)
	assert.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "100% Remote Support Rep", jobs[0].Title)
}

func Test_Search_ShouldMatchTitleCaseInsensitively(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.Add(ctx, &entities.Job{JobID: "1", Title: "SOFTWARE Engineer"}))

	jobs, err := repo.Search(ctx, NewJobQuery([]string{"software engineer"}, ""), 0)
	assert.NoError(t, err)
	assert.Len(t, jobs, 1)
}

func Test_Search_WhenRecordsShareCanonicalID_ShouldReturnFirstEncountered(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	now := time.Now()
	require.NoError(t, repo.Add(ctx, &entities.Job{
		JobID: "shared-id", Title: "Backend Developer", Platform: "seek",
		CreatedAt: now, UpdatedAt: now,
	}))
	require.NoError(t, repo.Add(ctx, &entities.Job{
		ExternalID: "shared-id", Title: "Backend Developer", Platform: "linkedin",
		CreatedAt: now.Add(-time.Hour), UpdatedAt: now.Add(-time.Hour),
	}))

	jobs, err := repo.Search(ctx, NewJobQuery([]string{"Backend"}, ""), 0)
	assert.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "seek", jobs[0].Platform)
}

func Test_Search_WhenRecordInactive_ShouldExclude(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.Add(ctx, &entities.Job{JobID: "1", Title: "Data Analyst", IsActive: lo.ToPtr(false)}))
	require.NoError(t, repo.Add(ctx, &entities.Job{JobID: "2", Title: "Data Analyst", IsActive: lo.ToPtr(true)}))
	require.NoError(t, repo.Add(ctx, &entities.Job{JobID: "3", Title: "Data Analyst"}))

	jobs, err := repo.Search(ctx, NewJobQuery([]string{"Data Analyst"}, ""), 0)
	assert.NoError(t, err)
	assert.Len(t, jobs, 2)
}

func Test_Search_WhenBothInputsBlank_ShouldRequireTitlePresence(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.Add(ctx, &entities.Job{JobID: "1", Title: "Product Manager"}))
	require.NoError(t, repo.Add(ctx, &entities.Job{JobID: "2", Title: ""}))

	jobs, err := repo.Search(ctx, NewJobQuery(nil, ""), 0)
	assert.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "Product Manager", jobs[0].Title)
}

func Test_Search_ShouldExpandCityIntoLocalities(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.Add(ctx, &entities.Job{JobID: "1", Title: "Engineer", Locations: "Parramatta"}))
	require.NoError(t, repo.Add(ctx, &entities.Job{JobID: "2", Title: "Engineer", Locations: "Penrith"}))
	require.NoError(t, repo.Add(ctx, &entities.Job{JobID: "3", Title: "Engineer", Locations: "Melbourne"}))

	jobs, err := repo.Search(ctx, NewJobQuery([]string{"Engineer"}, "Sydney"), 0)
	assert.NoError(t, err)
	assert.Len(t, jobs, 2)
}

func Test_Search_ShouldOrderByMostRecentlyUpdated(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	now := time.Now()
	require.NoError(t, repo.Add(ctx, &entities.Job{
		JobID: "old", Title: "Engineer", CreatedAt: now.Add(-2 * time.Hour), UpdatedAt: now.Add(-2 * time.Hour),
	}))
	require.NoError(t, repo.Add(ctx, &entities.Job{
		JobID: "new", Title: "Engineer", CreatedAt: now, UpdatedAt: now,
	}))

	jobs, err := repo.Search(ctx, NewJobQuery([]string{"Engineer"}, ""), 0)
	assert.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, "new", jobs[0].ID)
	assert.Equal(t, "old", jobs[1].ID)
}

func Test_Search_ShouldApplyLimit(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	for _, id := range []string{"1", "2", "3"} {
		require.NoError(t, repo.Add(ctx, &entities.Job{JobID: id, Title: "Engineer"}))
	}

	jobs, err := repo.Search(ctx, NewJobQuery([]string{"Engineer"}, ""), 2)
	assert.NoError(t, err)
	assert.Len(t, jobs, 2)
}

func Test_GetByAnyID_ShouldMatchAnyIdentifierForm(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	record := entities.Job{JobID: "src-9", ExternalID: "ext-9", Title: "Engineer"}
	require.NoError(t, repo.Add(ctx, &record))

	bySource, err := repo.GetByAnyID(ctx, "src-9")
	assert.NoError(t, err)
	require.NotNil(t, bySource)

	byExternal, err := repo.GetByAnyID(ctx, "ext-9")
	assert.NoError(t, err)
	require.NotNil(t, byExternal)

	byStoreID, err := repo.GetByAnyID(ctx, "1")
	assert.NoError(t, err)
	require.NotNil(t, byStoreID)

	assert.Equal(t, bySource.ID, byExternal.ID)
	assert.Equal(t, bySource.ID, byStoreID.ID)
}

func Test_GetByAnyID_WhenMissing_ShouldReturnNilWithoutError(t *testing.T) {
	repo := newTestRepository(t)

	job, err := repo.GetByAnyID(context.Background(), "nope")
	assert.NoError(t, err)
	assert.Nil(t, job)
}

func Test_RemoveStale_ShouldDeleteOnlyExpiredRecords(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	now := time.Now()
	require.NoError(t, repo.Add(ctx, &entities.Job{
		JobID: "stale", Title: "Engineer", CreatedAt: now.Add(-72 * time.Hour), UpdatedAt: now.Add(-72 * time.Hour),
	}))
	require.NoError(t, repo.Add(ctx, &entities.Job{
		JobID: "fresh", Title: "Engineer", CreatedAt: now, UpdatedAt: now,
	}))

	removed, err := repo.RemoveStale(ctx, now.Add(-24*time.Hour))
	assert.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	jobs, err := repo.Search(ctx, NewJobQuery([]string{"Engineer"}, ""), 0)
	assert.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "fresh", jobs[0].ID)
}

func Test_EscapePattern_ShouldEscapeLikeMetacharacters(t *testing.T) {
	assert.Equal(t, `100\%`, EscapePattern(`100%`))
	assert.Equal(t, `snake\_case`, EscapePattern(`snake_case`))
	assert.Equal(t, `back\\slash`, EscapePattern(`back\slash`))
	assert.Equal(t, "c++", EscapePattern("c++"))
}
