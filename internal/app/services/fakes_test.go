package services

import (
	"context"
	"mime/multipart"
	"sync"
	"time"

	"github.com/emre/learnportal/internal/app/models"
	"github.com/emre/learnportal/internal/pkg/apperrors"
	"github.com/emre/learnportal/internal/pkg/filestorage"
)

// In-memory stores backing the service tests. They mirror the repository
// error contracts, including the conditional write in ConsumeToken.

type fakeStudentStore struct {
	mu       sync.Mutex
	nextID   int64
	students map[int64]*models.Student
}

func newFakeStudentStore() *fakeStudentStore {
	return &fakeStudentStore{students: map[int64]*models.Student{}}
}

func (f *fakeStudentStore) add(s *models.Student) *models.Student {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	s.ID = f.nextID
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now()
	}
	f.students[s.ID] = s
	return s
}

func (f *fakeStudentStore) Create(ctx context.Context, name, email, accessToken string) (*models.Student, error) {
	return f.add(&models.Student{Name: name, Email: email, AccessToken: accessToken}), nil
}

func (f *fakeStudentStore) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.students[id]
	if !ok {
		return nil, apperrors.ErrStudentNotFound
	}
	cp := *s
	return &cp, nil
}

func (f *fakeStudentStore) GetByToken(ctx context.Context, token string) (*models.Student, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.students {
		if s.AccessToken == token {
			cp := *s
			return &cp, nil
		}
	}
	return nil, apperrors.ErrInvalidAccessToken
}

func (f *fakeStudentStore) List(ctx context.Context) ([]*models.Student, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*models.Student{}
	for _, s := range f.students {
		cp := *s
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeStudentStore) UpdateProfile(ctx context.Context, id int64, name, email string) (*models.Student, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.students[id]
	if !ok {
		return nil, apperrors.ErrStudentNotFound
	}
	s.Name = name
	s.Email = email
	cp := *s
	return &cp, nil
}

func (f *fakeStudentStore) Delete(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.students[id]; !ok {
		return apperrors.ErrStudentNotFound
	}
	delete(f.students, id)
	return nil
}

func (f *fakeStudentStore) SetToken(ctx context.Context, id int64, token string) (*models.Student, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.students[id]
	if !ok {
		return nil, apperrors.ErrStudentNotFound
	}
	s.AccessToken = token
	s.IsAccessUsed = false
	cp := *s
	return &cp, nil
}

func (f *fakeStudentStore) ConsumeToken(ctx context.Context, token string, when time.Time) (*models.Student, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.students {
		if s.AccessToken != token {
			continue
		}
		if s.IsAccessUsed {
			return nil, apperrors.ErrAccessTokenUsed
		}
		s.IsAccessUsed = true
		s.LastActive = &when
		cp := *s
		return &cp, nil
	}
	return nil, apperrors.ErrInvalidAccessToken
}

type fakeFolderStore struct {
	mu      sync.Mutex
	nextID  int64
	folders map[int64]*models.Folder
}

func newFakeFolderStore() *fakeFolderStore {
	return &fakeFolderStore{folders: map[int64]*models.Folder{}}
}

func (f *fakeFolderStore) Create(ctx context.Context, folder *models.Folder) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	folder.ID = f.nextID
	folder.CreatedAt = time.Now()
	cp := *folder
	f.folders[folder.ID] = &cp
	return folder.ID, nil
}

func (f *fakeFolderStore) GetByID(ctx context.Context, id int64) (*models.Folder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	folder, ok := f.folders[id]
	if !ok {
		return nil, apperrors.ErrFolderNotFound
	}
	cp := *folder
	return &cp, nil
}

func (f *fakeFolderStore) List(ctx context.Context) ([]*models.Folder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*models.Folder{}
	for _, folder := range f.folders {
		cp := *folder
		out = append(out, &cp)
	}
	return out, nil
}

type fakeFileStore struct {
	mu     sync.Mutex
	nextID int64
	files  map[int64]*models.File
	// when set, Create fails with this error
	createErr error
}

func newFakeFileStore() *fakeFileStore {
	return &fakeFileStore{files: map[int64]*models.File{}}
}

func (f *fakeFileStore) Create(ctx context.Context, file *models.File) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return 0, f.createErr
	}
	f.nextID++
	file.ID = f.nextID
	file.CreatedAt = time.Now()
	cp := *file
	f.files[file.ID] = &cp
	return file.ID, nil
}

func (f *fakeFileStore) GetByID(ctx context.Context, id int64) (*models.File, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	file, ok := f.files[id]
	if !ok {
		return nil, apperrors.ErrFileNotFound
	}
	cp := *file
	return &cp, nil
}

func (f *fakeFileStore) ListByFolder(ctx context.Context, folderID int64) ([]*models.File, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*models.File{}
	for _, file := range f.files {
		if file.FolderID == folderID {
			cp := *file
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeFileStore) Delete(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.files[id]; !ok {
		return apperrors.ErrFileNotFound
	}
	delete(f.files, id)
	return nil
}

type fakeUserStore struct {
	users map[string]*models.User
}

func (f *fakeUserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	u, ok := f.users[email]
	if !ok {
		return nil, apperrors.ErrResourceNotFound
	}
	cp := *u
	return &cp, nil
}

type fakeObjectStorage struct {
	mu      sync.Mutex
	saved   []string
	deleted []string
	saveErr error
}

func (f *fakeObjectStorage) SaveFile(fileHeader *multipart.FileHeader, subPath string) (*filestorage.StoredObject, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	path := subPath + "/" + fileHeader.Filename
	f.saved = append(f.saved, path)
	return &filestorage.StoredObject{
		URL:         "/uploads/" + path,
		StoragePath: path,
		Size:        fileHeader.Size,
	}, nil
}

func (f *fakeObjectStorage) DeleteFile(storagePath string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, storagePath)
	return nil
}

type fakeEmailService struct {
	mu      sync.Mutex
	sent    []string
	urls    []string
	sendErr error
}

func (f *fakeEmailService) SendAccessEmail(toEmail, toName, accessURL string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, toEmail)
	f.urls = append(f.urls, accessURL)
	return nil
}
