package service

import (
	"codecourse/internal/common"
	"codecourse/internal/common/security"
	"codecourse/internal/domain/model"
	"codecourse/internal/domain/repository/repotest"
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignupAndLogin(t *testing.T) {
	security.InitJWT([]byte("test-secret"), time.Hour)
	users := &repotest.Users{}
	svc := NewAuthService(users, zerolog.Nop())
	ctx := context.Background()

	user, err := svc.Signup(ctx, SignupRequest{Username: "alice", Email: "alice@example.com", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, model.RoleStudent, user.Role)
	assert.Empty(t, user.HashedPassword)

	stored, err := users.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.NotEqual(t, "pw", stored.HashedPassword)

	token, err := svc.Login(ctx, "alice", "pw")
	require.NoError(t, err)
	assert.Equal(t, "bearer", token.TokenType)
	assert.NotEmpty(t, token.AccessToken)

	_, err = svc.Login(ctx, "alice", "wrong")
	assert.ErrorIs(t, err, common.ErrUnauthorized)
	assert.Equal(t, "Incorrect username or password", common.DetailFromError(err))

	_, err = svc.Login(ctx, "nobody", "pw")
	assert.ErrorIs(t, err, common.ErrUnauthorized)
}

func TestSignupDuplicates(t *testing.T) {
	svc := NewAuthService(&repotest.Users{}, zerolog.Nop())
	ctx := context.Background()
	_, err := svc.Signup(ctx, SignupRequest{Username: "bob", Email: "bob@example.com", Password: "pw", Role: "admin"})
	require.NoError(t, err)

	_, err = svc.Signup(ctx, SignupRequest{Username: "bob", Email: "other@example.com", Password: "pw"})
	assert.Equal(t, http.StatusBadRequest, common.HTTPStatusFromError(err))
	assert.Equal(t, "Username already registered", common.DetailFromError(err))

	_, err = svc.Signup(ctx, SignupRequest{Username: "bobby", Email: "bob@example.com", Password: "pw"})
	assert.Equal(t, "Email already registered", common.DetailFromError(err))
}

func TestCurrentUserMissing(t *testing.T) {
	svc := NewAuthService(&repotest.Users{}, zerolog.Nop())
	_, err := svc.CurrentUser(context.Background(), "ghost")
	assert.ErrorIs(t, err, common.ErrUnauthorized)
}

func TestCourseLifecycle(t *testing.T) {
	cat := &repotest.Catalog{}
	courses := NewCourseService(cat, cat, zerolog.Nop())
	exercises := NewExerciseService(cat, cat, zerolog.Nop())
	ctx := context.Background()

	course, err := courses.CreateCourse(ctx, CreateCourseRequest{Title: "Python Basics"})
	require.NoError(t, err)
	assert.Equal(t, "python-basics", course.Slug)
	assert.NotNil(t, course.Exercises)

	_, err = courses.CreateCourse(ctx, CreateCourseRequest{Title: "python basics"})
	assert.ErrorIs(t, err, common.ErrConflict)
	assert.Equal(t, "Course slug already exists", common.DetailFromError(err))

	second, err := exercises.CreateExercise(ctx, course.ID, CreateExerciseRequest{Title: "Loops", Order: 2})
	require.NoError(t, err)
	first, err := exercises.CreateExercise(ctx, course.ID, CreateExerciseRequest{Title: "Variables", Order: 1, Language: "rust"})
	require.NoError(t, err)
	assert.Equal(t, model.LanguagePython, second.Language)
	assert.Equal(t, model.PassingRuleTestsPass, second.PassingRule)
	assert.Equal(t, "rust", first.Language)

	got, err := courses.GetCourse(ctx, course.ID)
	require.NoError(t, err)
	require.Len(t, got.Exercises, 2)
	assert.Equal(t, "Variables", got.Exercises[0].Title)
	assert.Equal(t, "Loops", got.Exercises[1].Title)

	list, err := courses.ListCourses(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Len(t, list[0].Exercises, 2)

	require.NoError(t, courses.DeleteCourse(ctx, course.ID))
	_, err = courses.GetCourse(ctx, course.ID)
	assert.Equal(t, "Course not found", common.DetailFromError(err))
	_, err = exercises.CreateExercise(ctx, course.ID, CreateExerciseRequest{Title: "Orphan"})
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestUpdateExercisePartial(t *testing.T) {
	cat := &repotest.Catalog{}
	courses := NewCourseService(cat, cat, zerolog.Nop())
	exercises := NewExerciseService(cat, cat, zerolog.Nop())
	ctx := context.Background()

	c1, err := courses.CreateCourse(ctx, CreateCourseRequest{Title: "One"})
	require.NoError(t, err)
	c2, err := courses.CreateCourse(ctx, CreateCourseRequest{Title: "Two"})
	require.NoError(t, err)
	ex, err := exercises.CreateExercise(ctx, c1.ID, CreateExerciseRequest{Title: "Sum", TestCode: "assert sum([1]) == 1"})
	require.NoError(t, err)

	title := "Sum of list"
	updated, err := exercises.UpdateExercise(ctx, c1.ID, ex.ID, UpdateExerciseRequest{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "Sum of list", updated.Title)
	assert.Equal(t, "assert sum([1]) == 1", updated.TestCode)

	bad := "guess"
	_, err = exercises.UpdateExercise(ctx, c1.ID, ex.ID, UpdateExerciseRequest{PassingRule: &bad})
	assert.ErrorIs(t, err, common.ErrValidation)

	_, err = exercises.UpdateExercise(ctx, c2.ID, ex.ID, UpdateExerciseRequest{Title: &title})
	assert.Equal(t, "Exercise not found", common.DetailFromError(err))
	assert.ErrorIs(t, exercises.DeleteExercise(ctx, c2.ID, ex.ID), common.ErrNotFound)

	require.NoError(t, exercises.DeleteExercise(ctx, c1.ID, ex.ID))
	assert.ErrorIs(t, exercises.DeleteExercise(ctx, c1.ID, ex.ID), common.ErrNotFound)
}

func TestRunServiceDefaultsLanguage(t *testing.T) {
	exec := &fakeExecutor{result: &model.RunResult{ExitCode: 0, Stdout: "hi\n"}}
	svc := NewRunService(NewInlineDispatcher(exec), zerolog.Nop())

	uid := int64(3)
	res, err := svc.Run(context.Background(), &uid, model.RunRequest{Code: "print('hi')"})
	require.NoError(t, err)
	assert.Equal(t, "hi\n", res.Stdout)
	assert.Equal(t, model.LanguagePython, exec.got.Language)

	exec.result, exec.err = nil, common.WithDetail(common.ErrServiceUnavailable, "Execution backend unreachable")
	_, err = svc.Run(context.Background(), nil, model.RunRequest{Code: "x", Language: "rust"})
	assert.ErrorIs(t, err, common.ErrServiceUnavailable)
	assert.Equal(t, "rust", exec.got.Language)
}

func TestDiscuss(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, "AI service not configured.", NewAIService(nil, zerolog.Nop()).Discuss(ctx, DiscussRequest{Message: "hi"}).Response)

	gen := &fakeGenerator{reply: "Try recursion."}
	svc := NewAIService(gen, zerolog.Nop())
	resp := svc.Discuss(ctx, DiscussRequest{Message: "How?", Context: "def f(): pass"})
	assert.Equal(t, "Try recursion.", resp.Response)
	assert.Equal(t, "Context: def f(): pass\n\nUser: How?", gen.prompt)

	gen.err = errors.New("quota exceeded")
	resp = svc.Discuss(ctx, DiscussRequest{Message: "How?"})
	assert.Equal(t, "Error communicating with AI: quota exceeded", resp.Response)
}

func TestGenerateExercise(t *testing.T) {
	ctx := context.Background()
	_, err := NewAIService(nil, zerolog.Nop()).GenerateExercise(ctx, GenerateExerciseRequest{Prompt: "x"})
	assert.Equal(t, "AI service not configured", common.DetailFromError(err))
	assert.Equal(t, http.StatusInternalServerError, common.HTTPStatusFromError(err))

	gen := &fakeGenerator{reply: "Sure!\n```json\n{\"title\": \"FizzBuzz\", \"description\": \"d\", \"starting_code\": \"def fb(n): pass\", \"test_cases\": [\"assert fb(3) == 'Fizz'\"]}\n```"}
	svc := NewAIService(gen, zerolog.Nop())
	ex, err := svc.GenerateExercise(ctx, GenerateExerciseRequest{Prompt: "fizzbuzz", Language: "rust"})
	require.NoError(t, err)
	assert.Equal(t, "FizzBuzz", ex.Title)
	assert.Equal(t, `["assert fb(3) == 'Fizz'"]`, ex.TestCases)
	assert.Contains(t, gen.prompt, "Create a rust coding exercise")

	gen.reply = "no json here"
	_, err = svc.GenerateExercise(ctx, GenerateExerciseRequest{Prompt: "fizzbuzz"})
	assert.Contains(t, common.DetailFromError(err), "Failed to generate valid exercise data")
}

func TestExtractJSONObject(t *testing.T) {
	assert.Equal(t, `{"a":1}`, ExtractJSONObject("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, ExtractJSONObject("```\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":{"b":2}}`, ExtractJSONObject(`Here you go: {"a":{"b":2}} enjoy`))
	assert.Equal(t, "plain", ExtractJSONObject("  plain  "))
}
