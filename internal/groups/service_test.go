package groups

import (
	"context"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"permission-engine/internal/cache"
	"permission-engine/internal/messaging/notifier"
	"permission-engine/internal/perms"
	"permission-engine/internal/repository"
	"permission-engine/internal/repository/model"
	"permission-engine/internal/utils"
)

func newTestService(t *testing.T) (*Service, *repository.MockRepository, *notifier.MockNotifier, *cache.ResolutionCache) {
	mockCntrl := gomock.NewController(t)
	mockRepo := repository.NewMockRepository(mockCntrl)
	mockNotifier := notifier.NewMockNotifier(mockCntrl)
	resCache := cache.NewResolutionCache(cache.DefaultUserTTL)

	svc := NewService(zap.NewNop().Sugar(), mockRepo, mockNotifier, resCache)
	return svc, mockRepo, mockNotifier, resCache
}

func duplicateKeyError() error {
	return mongo.WriteException{
		WriteErrors: []mongo.WriteError{
			{Index: 1, Code: 11000, Message: "duplicate key error"},
		},
	}
}

func TestService_Create(t *testing.T) {
	svc, mockRepo, mockNotifier, _ := newTestService(t)

	expected := &model.Group{
		Name:        "vip",
		Weight:      10,
		Permissions: []string{},
		Prefix:      utils.PointerOf("[VIP] "),
	}

	mockRepo.EXPECT().CreateGroup(gomock.Any(), expected).Return(nil)
	mockNotifier.EXPECT().GroupUpdate(gomock.Any(), expected, notifier.ChangeTypeCreate).Return(nil)

	// Names are normalized to lowercase before any storage.
	group, err := svc.Create(context.Background(), "VIP", 10, utils.PointerOf("[VIP] "), nil)
	assert.NoError(t, err)
	assert.Equal(t, expected, group)
}

func TestService_CreateValidation(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	_, err := svc.Create(context.Background(), "not valid!", 10, nil, nil)
	assert.ErrorIs(t, err, perms.ErrInvalidName)

	_, err = svc.Create(context.Background(), "vip", 0, nil, nil)
	assert.ErrorIs(t, err, perms.ErrInvalidWeight)
}

func TestService_CreateDuplicate(t *testing.T) {
	svc, mockRepo, _, _ := newTestService(t)

	assert.True(t, mongo.IsDuplicateKeyError(duplicateKeyError()))
	mockRepo.EXPECT().CreateGroup(gomock.Any(), gomock.Any()).Return(duplicateKeyError())

	_, err := svc.Create(context.Background(), "vip", 10, nil, nil)
	assert.ErrorIs(t, err, perms.ErrAlreadyExists)
}

func TestService_DeleteBaseRejected(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	err := svc.Delete(context.Background(), model.BaseGroupName)
	assert.ErrorIs(t, err, perms.ErrProtectedGroup)
}

func TestService_DeleteMissing(t *testing.T) {
	svc, mockRepo, _, _ := newTestService(t)

	mockRepo.EXPECT().DeleteGroup(gomock.Any(), "vip").Return(mongo.ErrNoDocuments)

	err := svc.Delete(context.Background(), "vip")
	assert.ErrorIs(t, err, perms.ErrNotFound)
}

func TestService_Delete(t *testing.T) {
	svc, mockRepo, mockNotifier, _ := newTestService(t)

	mockRepo.EXPECT().DeleteGroup(gomock.Any(), "vip").Return(nil)
	mockNotifier.EXPECT().GroupUpdate(gomock.Any(), gomock.Any(), notifier.ChangeTypeDelete).Return(nil)

	assert.NoError(t, svc.Delete(context.Background(), "vip"))
}

func TestService_SetWeight(t *testing.T) {
	svc, mockRepo, mockNotifier, _ := newTestService(t)

	mockRepo.EXPECT().GetGroup(gomock.Any(), "vip").
		Return(&model.Group{Name: "vip", Weight: 10}, nil)
	mockRepo.EXPECT().SaveGroup(gomock.Any(), &model.Group{Name: "vip", Weight: 20}).Return(nil)
	mockNotifier.EXPECT().GroupUpdate(gomock.Any(), gomock.Any(), notifier.ChangeTypeModify).Return(nil)

	assert.NoError(t, svc.SetWeight(context.Background(), "vip", 20))
}

func TestService_SetWeightBaseRejected(t *testing.T) {
	svc, mockRepo, _, _ := newTestService(t)

	mockRepo.EXPECT().GetGroup(gomock.Any(), model.BaseGroupName).
		Return(&model.Group{Name: model.BaseGroupName, Weight: model.BaseGroupWeight}, nil)

	err := svc.SetWeight(context.Background(), model.BaseGroupName, 5)
	assert.ErrorIs(t, err, perms.ErrProtectedGroup)
}

func TestService_SetWeightInvalid(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	err := svc.SetWeight(context.Background(), "vip", 0)
	assert.ErrorIs(t, err, perms.ErrInvalidWeight)
}

func TestService_AddPermission(t *testing.T) {
	svc, mockRepo, mockNotifier, _ := newTestService(t)

	mockRepo.EXPECT().GetGroup(gomock.Any(), "vip").
		Return(&model.Group{Name: "vip", Weight: 10, Permissions: []string{"kit.vip"}}, nil)
	mockRepo.EXPECT().SaveGroup(gomock.Any(),
		&model.Group{Name: "vip", Weight: 10, Permissions: []string{"kit.vip", "essentials.*"}}).Return(nil)
	mockNotifier.EXPECT().GroupUpdate(gomock.Any(), gomock.Any(), notifier.ChangeTypeModify).Return(nil)

	assert.NoError(t, svc.AddPermission(context.Background(), "vip", "essentials.*"))
}

func TestService_AddPermissionDuplicate(t *testing.T) {
	svc, mockRepo, _, _ := newTestService(t)

	mockRepo.EXPECT().GetGroup(gomock.Any(), "vip").
		Return(&model.Group{Name: "vip", Weight: 10, Permissions: []string{"kit.vip"}}, nil)

	err := svc.AddPermission(context.Background(), "vip", "kit.vip")
	assert.ErrorIs(t, err, perms.ErrAlreadyExists)
}

func TestService_AddPermissionInvalid(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	assert.ErrorIs(t, svc.AddPermission(context.Background(), "vip", ""), perms.ErrInvalidPermission)
	assert.ErrorIs(t, svc.AddPermission(context.Background(), "vip", "-"), perms.ErrInvalidPermission)
}

func TestService_RemovePermission(t *testing.T) {
	svc, mockRepo, mockNotifier, _ := newTestService(t)

	mockRepo.EXPECT().GetGroup(gomock.Any(), "vip").
		Return(&model.Group{Name: "vip", Weight: 10, Permissions: []string{"kit.vip", "-essentials.god"}}, nil)
	mockRepo.EXPECT().SaveGroup(gomock.Any(),
		&model.Group{Name: "vip", Weight: 10, Permissions: []string{"kit.vip"}}).Return(nil)
	mockNotifier.EXPECT().GroupUpdate(gomock.Any(), gomock.Any(), notifier.ChangeTypeModify).Return(nil)

	assert.NoError(t, svc.RemovePermission(context.Background(), "vip", "-essentials.god"))
}

func TestService_RemovePermissionMissing(t *testing.T) {
	svc, mockRepo, _, _ := newTestService(t)

	mockRepo.EXPECT().GetGroup(gomock.Any(), "vip").
		Return(&model.Group{Name: "vip", Weight: 10}, nil)

	err := svc.RemovePermission(context.Background(), "vip", "kit.vip")
	assert.ErrorIs(t, err, perms.ErrNotFound)
}

// Mutating a group must evict every cached user entry that was resolved
// through it, not just the group's own expansion entry.
func TestService_MutationInvalidatesCachedUsers(t *testing.T) {
	svc, mockRepo, mockNotifier, resCache := newTestService(t)
	userId := uuid.New()

	computes := 0
	_, err := resCache.GetOrCompute(userId, func() ([]string, []string, error) {
		computes++
		return []string{"kit.vip"}, []string{model.BaseGroupName, "vip"}, nil
	})
	assert.NoError(t, err)

	mockRepo.EXPECT().GetGroup(gomock.Any(), "vip").
		Return(&model.Group{Name: "vip", Weight: 10}, nil)
	mockRepo.EXPECT().SaveGroup(gomock.Any(), gomock.Any()).Return(nil)
	mockNotifier.EXPECT().GroupUpdate(gomock.Any(), gomock.Any(), notifier.ChangeTypeModify).Return(nil)

	assert.NoError(t, svc.AddPermission(context.Background(), "vip", "essentials.fly"))

	_, err = resCache.GetOrCompute(userId, func() ([]string, []string, error) {
		computes++
		return []string{"kit.vip", "essentials.fly"}, []string{model.BaseGroupName, "vip"}, nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 2, computes)
}

func TestService_EnsureBaseGroup(t *testing.T) {
	svc, mockRepo, _, _ := newTestService(t)

	mockRepo.EXPECT().GroupExists(gomock.Any(), model.BaseGroupName).Return(false, nil)
	mockRepo.EXPECT().CreateGroup(gomock.Any(), &model.Group{
		Name:        model.BaseGroupName,
		Weight:      model.BaseGroupWeight,
		Permissions: []string{},
	}).Return(nil)

	assert.NoError(t, svc.EnsureBaseGroup(context.Background()))

	// Already present: nothing to create.
	mockRepo.EXPECT().GroupExists(gomock.Any(), model.BaseGroupName).Return(true, nil)
	assert.NoError(t, svc.EnsureBaseGroup(context.Background()))
}

func TestService_StorageFailureSurfacedOnWrite(t *testing.T) {
	svc, mockRepo, _, _ := newTestService(t)

	mockRepo.EXPECT().GetGroup(gomock.Any(), "vip").
		Return(&model.Group{Name: "vip", Weight: 10}, nil)
	mockRepo.EXPECT().SaveGroup(gomock.Any(), gomock.Any()).Return(assert.AnError)

	err := svc.AddPermission(context.Background(), "vip", "kit.vip")

	var storageErr *perms.StorageError
	assert.ErrorAs(t, err, &storageErr)
	assert.ErrorIs(t, err, assert.AnError)
}
