package database

type TaskManagerRepository interface {
	Ping() error

	CreateAccount(params CreateAccountParams) (User, error)
	UpdateAccount(params UpdateAccountParams) (User, error)
	GetAccountById(accountId int) (User, error)
	GetAccountByEmail(email string) (User, error)
	ListUsers() ([]User, error)
	CountUsers() (int, error)
	UpdateUserRole(userId int, role string) (User, error)
	DeleteUser(userId int) error

	CreateTask(params CreateTaskParams) (Task, error)
	UpdateTask(params UpdateTaskParams) (Task, error)
	GetTaskById(taskId int) (Task, error)
	ListTasksForUser(userId int) ([]Task, error)
	ListTasks() ([]Task, error)
	DeleteTask(taskId int) error
	AddTaskMember(taskId, userId int) error
	RemoveTaskMember(taskId, userId int) error
	GetTaskMembers(taskId int) ([]User, error)
	IsTaskMember(taskId, userId int) bool

	CreateDirectMessage(msg DirectMessage) (DirectMessage, error)
	GetDirectMessages(userId, peerId, before, limit int) ([]DirectMessage, error)
	CreateTaskMessage(msg TaskMessage) (TaskMessage, error)
	GetTaskMessages(taskId, before, limit int) ([]TaskMessage, error)

	CreateFile(params CreateFileParams) (File, error)
	GetFileById(fileId int) (File, error)
	ListFilesByTask(taskId int) ([]File, error)
	DeleteFile(fileId int) error

	CreateNotification(params CreateNotificationParams) (Notification, error)
	ListNotifications(userId int) ([]Notification, error)
	MarkNotificationRead(notificationId, userId int) error
	MarkAllNotificationsRead(userId int) error

	CreateReminder(params CreateReminderParams) (Reminder, error)
	ListReminders(userId int) ([]Reminder, error)
	DeleteReminder(reminderId, userId int) error
}
