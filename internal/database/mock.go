package database

import (
	"github.com/stretchr/testify/mock"
)

type MockTaskManagerRepository struct {
	mock.Mock
}

func (m *MockTaskManagerRepository) Ping() error {
	args := m.Called()
	return args.Error(0)
}
func (m *MockTaskManagerRepository) CreateAccount(params CreateAccountParams) (User, error) {
	args := m.Called(params)
	return args.Get(0).(User), args.Error(1)
}
func (m *MockTaskManagerRepository) UpdateAccount(params UpdateAccountParams) (User, error) {
	args := m.Called(params)
	return args.Get(0).(User), args.Error(1)
}
func (m *MockTaskManagerRepository) GetAccountById(accountId int) (User, error) {
	args := m.Called(accountId)
	return args.Get(0).(User), args.Error(1)
}
func (m *MockTaskManagerRepository) GetAccountByEmail(email string) (User, error) {
	args := m.Called(email)
	return args.Get(0).(User), args.Error(1)
}
func (m *MockTaskManagerRepository) ListUsers() ([]User, error) {
	args := m.Called()
	return args.Get(0).([]User), args.Error(1)
}
func (m *MockTaskManagerRepository) CountUsers() (int, error) {
	args := m.Called()
	return args.Int(0), args.Error(1)
}
func (m *MockTaskManagerRepository) UpdateUserRole(userId int, role string) (User, error) {
	args := m.Called(userId, role)
	return args.Get(0).(User), args.Error(1)
}
func (m *MockTaskManagerRepository) DeleteUser(userId int) error {
	args := m.Called(userId)
	return args.Error(0)
}
func (m *MockTaskManagerRepository) CreateTask(params CreateTaskParams) (Task, error) {
	args := m.Called(params)
	return args.Get(0).(Task), args.Error(1)
}
func (m *MockTaskManagerRepository) UpdateTask(params UpdateTaskParams) (Task, error) {
	args := m.Called(params)
	return args.Get(0).(Task), args.Error(1)
}
func (m *MockTaskManagerRepository) GetTaskById(taskId int) (Task, error) {
	args := m.Called(taskId)
	return args.Get(0).(Task), args.Error(1)
}
func (m *MockTaskManagerRepository) ListTasksForUser(userId int) ([]Task, error) {
	args := m.Called(userId)
	return args.Get(0).([]Task), args.Error(1)
}
func (m *MockTaskManagerRepository) ListTasks() ([]Task, error) {
	args := m.Called()
	return args.Get(0).([]Task), args.Error(1)
}
func (m *MockTaskManagerRepository) DeleteTask(taskId int) error {
	args := m.Called(taskId)
	return args.Error(0)
}
func (m *MockTaskManagerRepository) AddTaskMember(taskId, userId int) error {
	args := m.Called(taskId, userId)
	return args.Error(0)
}
func (m *MockTaskManagerRepository) RemoveTaskMember(taskId, userId int) error {
	args := m.Called(taskId, userId)
	return args.Error(0)
}
func (m *MockTaskManagerRepository) GetTaskMembers(taskId int) ([]User, error) {
	args := m.Called(taskId)
	return args.Get(0).([]User), args.Error(1)
}
func (m *MockTaskManagerRepository) IsTaskMember(taskId, userId int) bool {
	args := m.Called(taskId, userId)
	return args.Bool(0)
}
func (m *MockTaskManagerRepository) CreateDirectMessage(msg DirectMessage) (DirectMessage, error) {
	args := m.Called(msg)
	return args.Get(0).(DirectMessage), args.Error(1)
}
func (m *MockTaskManagerRepository) GetDirectMessages(userId, peerId, before, limit int) ([]DirectMessage, error) {
	args := m.Called(userId, peerId, before, limit)
	return args.Get(0).([]DirectMessage), args.Error(1)
}
func (m *MockTaskManagerRepository) CreateTaskMessage(msg TaskMessage) (TaskMessage, error) {
	args := m.Called(msg)
	return args.Get(0).(TaskMessage), args.Error(1)
}
func (m *MockTaskManagerRepository) GetTaskMessages(taskId, before, limit int) ([]TaskMessage, error) {
	args := m.Called(taskId, before, limit)
	return args.Get(0).([]TaskMessage), args.Error(1)
}
func (m *MockTaskManagerRepository) CreateFile(params CreateFileParams) (File, error) {
	args := m.Called(params)
	return args.Get(0).(File), args.Error(1)
}
func (m *MockTaskManagerRepository) GetFileById(fileId int) (File, error) {
	args := m.Called(fileId)
	return args.Get(0).(File), args.Error(1)
}
func (m *MockTaskManagerRepository) ListFilesByTask(taskId int) ([]File, error) {
	args := m.Called(taskId)
	return args.Get(0).([]File), args.Error(1)
}
func (m *MockTaskManagerRepository) DeleteFile(fileId int) error {
	args := m.Called(fileId)
	return args.Error(0)
}
func (m *MockTaskManagerRepository) CreateNotification(params CreateNotificationParams) (Notification, error) {
	args := m.Called(params)
	return args.Get(0).(Notification), args.Error(1)
}
func (m *MockTaskManagerRepository) ListNotifications(userId int) ([]Notification, error) {
	args := m.Called(userId)
	return args.Get(0).([]Notification), args.Error(1)
}
func (m *MockTaskManagerRepository) MarkNotificationRead(notificationId, userId int) error {
	args := m.Called(notificationId, userId)
	return args.Error(0)
}
func (m *MockTaskManagerRepository) MarkAllNotificationsRead(userId int) error {
	args := m.Called(userId)
	return args.Error(0)
}
func (m *MockTaskManagerRepository) CreateReminder(params CreateReminderParams) (Reminder, error) {
	args := m.Called(params)
	return args.Get(0).(Reminder), args.Error(1)
}
func (m *MockTaskManagerRepository) ListReminders(userId int) ([]Reminder, error) {
	args := m.Called(userId)
	return args.Get(0).([]Reminder), args.Error(1)
}
func (m *MockTaskManagerRepository) DeleteReminder(reminderId, userId int) error {
	args := m.Called(reminderId, userId)
	return args.Error(0)
}
