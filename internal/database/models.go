package database

import "time"

type User struct {
	Id           int
	Username     string
	EmailAddress string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Task struct {
	Id          int
	ExternalId  string
	Title       string
	Description string
	Status      string
	Priority    string
	DueDate     *time.Time
	CreatorId   int
	Members     []User
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type DirectMessage struct {
	Id         int
	FromUserId int
	ToUserId   int
	Content    string
	CreatedAt  time.Time
}

type TaskMessage struct {
	Id        int
	TaskId    int
	UserId    int
	Content   string
	CreatedAt time.Time
}

type File struct {
	Id          int
	TaskId      int
	UploaderId  int
	Name        string
	ObjectName  string
	Size        int64
	ContentType string
	CreatedAt   time.Time
}

type Notification struct {
	Id          int
	UserId      int
	Title       string
	Description string
	Variant     string
	Read        bool
	CreatedAt   time.Time
}

type Reminder struct {
	Id        int
	UserId    int
	TaskId    *int
	Note      string
	RemindAt  time.Time
	CreatedAt time.Time
}

type CreateAccountParams struct {
	Username     string
	EmailAddress string
	PasswordHash string
	Role         string
}

type UpdateAccountParams struct {
	UserId       int
	Username     string
	PasswordHash string
}

type CreateTaskParams struct {
	ExternalId  string
	Title       string
	Description string
	Status      string
	Priority    string
	DueDate     *time.Time
	CreatorId   int
}

type UpdateTaskParams struct {
	TaskId      int
	Title       string
	Description string
	Status      string
	Priority    string
	DueDate     *time.Time
}

type CreateFileParams struct {
	TaskId      int
	UploaderId  int
	Name        string
	ObjectName  string
	Size        int64
	ContentType string
}

type CreateNotificationParams struct {
	UserId      int
	Title       string
	Description string
	Variant     string
}

type CreateReminderParams struct {
	UserId   int
	TaskId   *int
	Note     string
	RemindAt time.Time
}
