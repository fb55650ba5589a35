package service

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/collab-portal-api/internal/dto"
	"github.com/noah-isme/collab-portal-api/internal/models"
	appErrors "github.com/noah-isme/collab-portal-api/pkg/errors"
	"github.com/noah-isme/collab-portal-api/pkg/sanitize"
)

func strPtr(s string) *string { return &s }

func sampleStudent(t *testing.T) models.Student {
	t.Helper()
	dob, err := models.ParseDate("2001-04-09")
	require.NoError(t, err)
	return models.Student{
		ID:            3,
		Name:          "Ada",
		Email:         "ada@uni.edu",
		Phone:         strPtr("555-0100"),
		Bio:           strPtr("Likes engines"),
		SkillsSummary: strPtr("Go, SQL"),
		Dob:           &dob,
	}
}

func TestMergeStudentTouchesOnlySubmittedFields(t *testing.T) {
	merger := NewMerger(sanitize.NewText(), nil)
	original := sampleStudent(t)

	merged, changes, err := merger.MergeStudent(original, dto.StudentProfilePatch{Bio: strPtr("<b>Writes</b> compilers")})
	require.NoError(t, err)

	assert.Equal(t, []string{"bio"}, changes.Fields())
	assert.Equal(t, "Writes compilers", *merged.Bio)
	assert.Equal(t, original.Name, merged.Name)
	assert.Equal(t, original.Phone, merged.Phone)
	assert.Equal(t, original.Dob, merged.Dob)
	assert.Equal(t, "Likes engines", *original.Bio, "input record is not mutated")
}

func TestMergeStudentEmptyValues(t *testing.T) {
	merger := NewMerger(nil, nil)

	merged, changes, err := merger.MergeStudent(sampleStudent(t), dto.StudentProfilePatch{
		Phone:          strPtr(""),
		Dob:            strPtr(""),
		EmergencyEmail: strPtr(""),
	})
	require.NoError(t, err)

	require.NotNil(t, merged.Phone)
	assert.Equal(t, "", *merged.Phone, "empty text overwrites")
	assert.Nil(t, merged.Dob, "empty date clears")
	assert.Equal(t, []string{"dob", "emergency_email", "phone"}, changes.Fields())
	assert.Nil(t, changes.Values["dob"])
}

func TestMergeStudentRejectsWholePatch(t *testing.T) {
	merger := NewMerger(nil, nil)
	original := sampleStudent(t)

	merged, changes, err := merger.MergeStudent(original, dto.StudentProfilePatch{
		Bio:            strPtr("new bio"),
		Dob:            strPtr("09/04/2001"),
		Name:           strPtr("   "),
		EmergencyEmail: strPtr("not-an-email"),
	})
	require.Error(t, err)
	assert.True(t, changes.Empty())
	assert.Equal(t, models.Student{}, merged)

	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Len(t, appErr.Details, 3)
	assert.Contains(t, appErr.Details, "dob")
	assert.Contains(t, appErr.Details, "name")
	assert.Contains(t, appErr.Details, "emergency_email")
	assert.Equal(t, "Likes engines", *original.Bio)
}

func TestMergeStudentParsesDates(t *testing.T) {
	merger := NewMerger(nil, nil)

	merged, changes, err := merger.MergeStudent(models.Student{ID: 1, Name: "Ada"}, dto.StudentProfilePatch{
		GraduationDate: strPtr(" 2027-06-30 "),
		Email:          strPtr(" Ada@Uni.Edu "),
	})
	require.NoError(t, err)
	require.NotNil(t, merged.GraduationDate)
	assert.Equal(t, "2027-06-30", merged.GraduationDate.String())
	assert.Equal(t, "ada@uni.edu", merged.Email)
	assert.IsType(t, models.Date{}, changes.Values["graduation_date"])
}

func TestMergePatchIgnoresUnknownJSONFields(t *testing.T) {
	var patch dto.StudentProfilePatch
	require.NoError(t, json.Unmarshal([]byte(`{"bio":"hi","id":99,"password_hash":"x","profile_pic":"/etc/passwd"}`), &patch))

	merged, changes, err := NewMerger(nil, nil).MergeStudent(sampleStudent(t), patch)
	require.NoError(t, err)
	assert.Equal(t, []string{"bio"}, changes.Fields())
	assert.Equal(t, int64(3), merged.ID)
	assert.Nil(t, merged.ProfilePic)
}

func TestMergeProfessor(t *testing.T) {
	merger := NewMerger(sanitize.NewText(), nil)
	original := models.Professor{ID: 2, Name: "Grace", Email: "grace@uni.edu", Department: strPtr("CS")}

	merged, changes, err := merger.MergeProfessor(original, dto.ProfessorProfilePatch{
		Expertise: strPtr("Compilers <script>alert(1)</script>"),
		CVLink:    strPtr(" https://example.edu/cv.pdf "),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"cv_link", "expertise"}, changes.Fields())
	assert.Equal(t, "Compilers", *merged.Expertise)
	assert.Equal(t, "https://example.edu/cv.pdf", *merged.CVLink)
	assert.Equal(t, "CS", *merged.Department)
}

func TestMergeProject(t *testing.T) {
	merger := NewMerger(nil, nil)
	original := models.Project{ID: 5, ProfessorID: 2, Title: "Compilers", Status: models.ProjectStatusActive, ApplicationsOpen: true}

	t.Run("applies", func(t *testing.T) {
		closed := false
		merged, changes, err := merger.MergeProject(original, dto.ProjectPatch{
			Status:           strPtr("Completed"),
			ApplicationsOpen: &closed,
			Scope:            strPtr("Front end only"),
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"applications_open", "scope", "status"}, changes.Fields())
		assert.Equal(t, models.ProjectStatusCompleted, merged.Status)
		assert.False(t, merged.AcceptingApplications())
		assert.Equal(t, "Compilers", merged.Title)
	})

	t.Run("rejects", func(t *testing.T) {
		long := make([]rune, 201)
		for i := range long {
			long[i] = 'x'
		}
		for name, patch := range map[string]dto.ProjectPatch{
			"empty title":    {Title: strPtr("  ")},
			"long title":     {Title: strPtr(string(long))},
			"unknown status": {Status: strPtr("archived"), Scope: strPtr("ok")},
		} {
			_, changes, err := merger.MergeProject(original, patch)
			assert.ErrorIs(t, err, appErrors.ErrValidation, name)
			assert.True(t, changes.Empty(), name)
		}
	})

	t.Run("empty patch", func(t *testing.T) {
		merged, changes, err := merger.MergeProject(original, dto.ProjectPatch{})
		require.NoError(t, err)
		assert.True(t, changes.Empty())
		assert.Equal(t, original, merged)
	})
}
