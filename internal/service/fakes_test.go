package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/avtoshkola/driveschool_api/internal/model"
	"github.com/avtoshkola/driveschool_api/internal/repository"
)

// memStore in-memory реализация всех хранилищ для тестов сервисов
type memStore struct {
	mu           sync.Mutex
	nextID       int64
	users        map[int64]*model.User
	teachers     map[int64]*model.Teacher
	students     map[int64]*model.Student
	workDays     map[int64][]*model.WorkDay
	lessons      map[int64]*model.Lesson
	places       []*model.Place
	topics       map[int64]*model.Topic
	lessonTopics []*model.LessonTopic
	payments     []*model.Payment
}

func newMemStore() *memStore {
	return &memStore{
		users:    make(map[int64]*model.User),
		teachers: make(map[int64]*model.Teacher),
		students: make(map[int64]*model.Student),
		workDays: make(map[int64][]*model.WorkDay),
		lessons:  make(map[int64]*model.Lesson),
		topics:   make(map[int64]*model.Topic),
	}
}

func (m *memStore) id() int64 {
	m.nextID++
	return m.nextID
}

// --- UserStore ---

func (m *memStore) GetByID(ctx context.Context, id int64) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.users[id], nil
}

func (m *memStore) GetByAuthToken(ctx context.Context, token string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.AuthToken == token {
			return user, nil
		}
	}
	return nil, nil
}

func (m *memStore) addUser(user *model.User) *model.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	user.ID = m.id()
	m.users[user.ID] = user
	return user
}

// --- TeacherStore (отдельный тип, чтобы не конфликтовать по GetByID) ---

type memTeachers struct{ store *memStore }

func (m memTeachers) GetByID(ctx context.Context, id int64) (*model.Teacher, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	return m.store.teachers[id], nil
}

func (m memTeachers) GetByUserID(ctx context.Context, userID int64) (*model.Teacher, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	for _, teacher := range m.store.teachers {
		if teacher.UserID == userID {
			return teacher, nil
		}
	}
	return nil, nil
}

func (m memTeachers) WorkDaysForDate(ctx context.Context, teacherID int64, date time.Time) ([]*model.WorkDay, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	var specific, generic []*model.WorkDay
	day := model.DayFromWeekday(date.Weekday())
	for _, wd := range m.store.workDays[teacherID] {
		if wd.OnSpecificDate != nil {
			if sameDate(*wd.OnSpecificDate, date) {
				specific = append(specific, wd)
			}
			continue
		}
		if wd.Day == day {
			generic = append(generic, wd)
		}
	}

	if len(specific) > 0 {
		return specific, nil
	}
	return generic, nil
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func (m *memStore) addTeacher(teacher *model.Teacher) *model.Teacher {
	m.mu.Lock()
	defer m.mu.Unlock()
	teacher.ID = m.id()
	m.teachers[teacher.ID] = teacher
	return teacher
}

func (m *memStore) addWorkDay(wd *model.WorkDay) {
	m.mu.Lock()
	defer m.mu.Unlock()
	wd.ID = m.id()
	m.workDays[wd.TeacherID] = append(m.workDays[wd.TeacherID], wd)
}

// --- StudentStore ---

type memStudents struct{ store *memStore }

func (m memStudents) GetByID(ctx context.Context, id int64) (*model.Student, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	return m.store.students[id], nil
}

func (m memStudents) GetByUserID(ctx context.Context, userID int64) (*model.Student, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	for _, student := range m.store.students {
		if student.UserID == userID {
			return student, nil
		}
	}
	return nil, nil
}

func (m memStudents) ApprovedLessonCount(ctx context.Context, studentID int64) (int, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	count := 0
	for _, lesson := range m.store.lessons {
		if lesson.StudentID != nil && *lesson.StudentID == studentID && lesson.IsApproved && !lesson.Deleted {
			count++
		}
	}
	return count, nil
}

func (m *memStore) addStudent(student *model.Student) *model.Student {
	m.mu.Lock()
	defer m.mu.Unlock()
	student.ID = m.id()
	m.students[student.ID] = student
	return student
}

// --- LessonStore ---

type memLessons struct{ store *memStore }

func (m memLessons) Create(ctx context.Context, lesson *model.Lesson) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	lesson.ID = m.store.id()
	lesson.CreatedAt = time.Now().UTC()
	m.store.lessons[lesson.ID] = lesson
	return nil
}

func (m memLessons) GetByID(ctx context.Context, id int64) (*model.Lesson, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	lesson, ok := m.store.lessons[id]
	if !ok {
		return nil, nil
	}
	copied := *lesson
	return &copied, nil
}

func (m memLessons) Update(ctx context.Context, lesson *model.Lesson) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	copied := *lesson
	m.store.lessons[lesson.ID] = &copied
	return nil
}

func (m memLessons) SetApproved(ctx context.Context, id int64, approved bool) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	m.store.lessons[id].IsApproved = approved
	return nil
}

func (m memLessons) SetDeleted(ctx context.Context, id int64, deleted bool) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	m.store.lessons[id].Deleted = deleted
	return nil
}

func (m memLessons) TakenLessons(ctx context.Context, teacherID int64, from, to time.Time, onlyApproved bool, exceptID int64) ([]*model.Lesson, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	var taken []*model.Lesson
	for _, lesson := range m.store.lessons {
		if lesson.TeacherID != teacherID || lesson.Deleted || lesson.ID == exceptID {
			continue
		}
		if lesson.Date.Before(from) || !lesson.Date.Before(to) {
			continue
		}
		if onlyApproved && !lesson.IsApproved {
			continue
		}
		taken = append(taken, lesson)
	}
	return taken, nil
}

func (m memLessons) ExistsApprovedAt(ctx context.Context, date time.Time, exceptID int64) (bool, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	for _, lesson := range m.store.lessons {
		if lesson.ID != exceptID && lesson.IsApproved && !lesson.Deleted && lesson.Date.Equal(date) {
			return true, nil
		}
	}
	return false, nil
}

func (m memLessons) CountApprovedBefore(ctx context.Context, studentID int64, before time.Time) (int, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	count := 0
	for _, lesson := range m.store.lessons {
		if lesson.StudentID != nil && *lesson.StudentID == studentID &&
			lesson.IsApproved && !lesson.Deleted && lesson.Date.Before(before) {
			count++
		}
	}
	return count, nil
}

func (m memLessons) List(ctx context.Context, filter repository.LessonFilter) ([]*model.Lesson, int, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	var matched []*model.Lesson
	for _, lesson := range m.store.lessons {
		if lesson.Deleted {
			continue
		}
		if filter.TeacherID != nil && lesson.TeacherID != *filter.TeacherID {
			continue
		}
		if filter.StudentID != nil && (lesson.StudentID == nil || *lesson.StudentID != *filter.StudentID) {
			continue
		}
		if filter.DateFrom != nil && lesson.Date.Before(*filter.DateFrom) {
			continue
		}
		if filter.DateTo != nil && lesson.Date.After(*filter.DateTo) {
			continue
		}
		if filter.DateEq != nil && !lesson.Date.Equal(*filter.DateEq) {
			continue
		}
		if filter.IsApproved != nil && lesson.IsApproved != *filter.IsApproved {
			continue
		}
		matched = append(matched, lesson)
	}

	sort.Slice(matched, func(i, j int) bool {
		if filter.Desc {
			return matched[i].Date.After(matched[j].Date)
		}
		return matched[i].Date.Before(matched[j].Date)
	})

	total := len(matched)
	if filter.Offset > len(matched) {
		return nil, total, nil
	}
	matched = matched[filter.Offset:]
	if filter.Limit > 0 && filter.Limit < len(matched) {
		matched = matched[:filter.Limit]
	}

	return matched, total, nil
}

// --- PlaceStore ---

type memPlaces struct{ store *memStore }

func (m memPlaces) CreateOrFind(ctx context.Context, studentID int64, name string, usedAs model.PlaceType) (*model.Place, error) {
	if name == "" {
		return nil, nil
	}

	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	for _, place := range m.store.places {
		if place.StudentID == studentID && place.Name == name && place.UsedAs == usedAs {
			place.TimesUsed++
			return place, nil
		}
	}

	place := &model.Place{
		ID:        m.store.id(),
		StudentID: studentID,
		Name:      name,
		UsedAs:    usedAs,
		TimesUsed: 1,
	}
	m.store.places = append(m.store.places, place)
	return place, nil
}

func (m memPlaces) GetByID(ctx context.Context, id int64) (*model.Place, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	for _, place := range m.store.places {
		if place.ID == id {
			return place, nil
		}
	}
	return nil, nil
}

// --- TopicStore ---

type memTopics struct{ store *memStore }

func (m memTopics) GetByID(ctx context.Context, id int64) (*model.Topic, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	return m.store.topics[id], nil
}

func (m memTopics) GetByIDs(ctx context.Context, ids []int64) ([]*model.Topic, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	var topics []*model.Topic
	for _, id := range ids {
		if topic, ok := m.store.topics[id]; ok {
			topics = append(topics, topic)
		}
	}
	return topics, nil
}

func (m memTopics) ForLessonNumber(ctx context.Context, lessonNumber int) ([]*model.Topic, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	var topics []*model.Topic
	for _, topic := range m.store.topics {
		if topic.AppliesTo(lessonNumber) {
			topics = append(topics, topic)
		}
	}
	sort.Slice(topics, func(i, j int) bool { return topics[i].ID < topics[j].ID })
	return topics, nil
}

func (m memTopics) StudentTopicIDs(ctx context.Context, studentID int64, finished bool) ([]int64, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	seen := make(map[int64]bool)
	var ids []int64
	for _, lt := range m.store.lessonTopics {
		if lt.IsFinished != finished {
			continue
		}
		lesson, ok := m.store.lessons[lt.LessonID]
		if !ok || lesson.Deleted || lesson.StudentID == nil || *lesson.StudentID != studentID {
			continue
		}
		if !seen[lt.TopicID] {
			seen[lt.TopicID] = true
			ids = append(ids, lt.TopicID)
		}
	}
	return ids, nil
}

func (m memTopics) LessonTopicIDs(ctx context.Context, lessonID int64, finished bool) ([]int64, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	var ids []int64
	for _, lt := range m.store.lessonTopics {
		if lt.LessonID == lessonID && lt.IsFinished == finished {
			ids = append(ids, lt.TopicID)
		}
	}
	return ids, nil
}

func (m memTopics) AppendLessonTopic(ctx context.Context, lessonTopic *model.LessonTopic) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	lessonTopic.ID = m.store.id()
	lessonTopic.CreatedAt = time.Now().UTC()
	m.store.lessonTopics = append(m.store.lessonTopics, lessonTopic)
	return nil
}

func (m *memStore) addTopic(topic *model.Topic) *model.Topic {
	m.mu.Lock()
	defer m.mu.Unlock()
	topic.ID = m.id()
	m.topics[topic.ID] = topic
	return topic
}

// --- PaymentStore ---

type memPayments struct{ store *memStore }

func (m memPayments) List(ctx context.Context, filter repository.PaymentFilter) ([]*model.Payment, int, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	var matched []*model.Payment
	for _, payment := range m.store.payments {
		if filter.TeacherID != nil && payment.TeacherID != *filter.TeacherID {
			continue
		}
		if filter.StudentID != nil && payment.StudentID != *filter.StudentID {
			continue
		}
		matched = append(matched, payment)
	}

	total := len(matched)
	if filter.Offset > len(matched) {
		return nil, total, nil
	}
	matched = matched[filter.Offset:]
	if filter.Limit > 0 && filter.Limit < len(matched) {
		matched = matched[:filter.Limit]
	}

	return matched, total, nil
}

// --- Notifier ---

type sentNotification struct {
	Token string
	Title string
	Body  string
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []sentNotification
}

func (n *fakeNotifier) Notify(ctx context.Context, token, title, body string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, sentNotification{Token: token, Title: title, Body: body})
	return nil
}
