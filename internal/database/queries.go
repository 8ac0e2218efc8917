package database

import (
	"database/sql"
	"time"
)

func (db *PgTaskManagerRepository) CreateAccount(params CreateAccountParams) (User, error) {
	res := db.conn.QueryRow(
		"INSERT INTO users (username, email, password_hash, role, created_at) "+
			"VALUES ($1, $2, $3, $4, $5) RETURNING id, username, email, role, created_at, updated_at",
		params.Username,
		params.EmailAddress,
		params.PasswordHash,
		params.Role,
		time.Now().UTC(),
	)

	var u User
	err := res.Scan(
		&u.Id,
		&u.Username,
		&u.EmailAddress,
		&u.Role,
		&u.CreatedAt,
		&u.UpdatedAt,
	)

	return u, err
}

func (db *PgTaskManagerRepository) UpdateAccount(params UpdateAccountParams) (User, error) {
	res := db.conn.QueryRow(
		"UPDATE users SET username = $2, password_hash = $3, updated_at = $4 "+
			"WHERE id = $1 RETURNING id, username, email, role, created_at, updated_at",
		params.UserId,
		params.Username,
		params.PasswordHash,
		time.Now().UTC(),
	)

	var u User
	err := res.Scan(
		&u.Id,
		&u.Username,
		&u.EmailAddress,
		&u.Role,
		&u.CreatedAt,
		&u.UpdatedAt,
	)

	return u, err
}

func (db *PgTaskManagerRepository) GetAccountById(accountId int) (User, error) {
	row := db.conn.QueryRow(
		"SELECT id, username, email, role, created_at, updated_at FROM users "+
			"WHERE id = $1 LIMIT 1",
		accountId,
	)

	var user User
	err := row.Scan(
		&user.Id,
		&user.Username,
		&user.EmailAddress,
		&user.Role,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	return user, err
}

func (db *PgTaskManagerRepository) GetAccountByEmail(email string) (User, error) {
	row := db.conn.QueryRow(
		"SELECT id, username, email, password_hash, role, created_at, updated_at FROM users "+
			"WHERE email = $1 LIMIT 1",
		email,
	)

	var user User
	err := row.Scan(
		&user.Id,
		&user.Username,
		&user.EmailAddress,
		&user.PasswordHash,
		&user.Role,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	return user, err
}

func (db *PgTaskManagerRepository) ListUsers() ([]User, error) {
	rows, err := db.conn.Query(
		"SELECT id, username, email, role, created_at, updated_at FROM users ORDER BY username",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		var u User
		if err := rows.Scan(
			&u.Id,
			&u.Username,
			&u.EmailAddress,
			&u.Role,
			&u.CreatedAt,
			&u.UpdatedAt,
		); err != nil {
			return nil, err
		}
		users = append(users, u)
	}

	return users, rows.Err()
}

func (db *PgTaskManagerRepository) CountUsers() (int, error) {
	var count int
	err := db.conn.QueryRow("SELECT COUNT(*) FROM users").Scan(&count)
	return count, err
}

func (db *PgTaskManagerRepository) UpdateUserRole(userId int, role string) (User, error) {
	row := db.conn.QueryRow(
		"UPDATE users SET role = $2, updated_at = $3 "+
			"WHERE id = $1 RETURNING id, username, email, role, created_at, updated_at",
		userId,
		role,
		time.Now().UTC(),
	)

	var u User
	err := row.Scan(
		&u.Id,
		&u.Username,
		&u.EmailAddress,
		&u.Role,
		&u.CreatedAt,
		&u.UpdatedAt,
	)

	return u, err
}

func (db *PgTaskManagerRepository) DeleteUser(userId int) error {
	res, err := db.conn.Exec("DELETE FROM users WHERE id = $1", userId)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}

	return nil
}

func (db *PgTaskManagerRepository) CreateTask(params CreateTaskParams) (Task, error) {
	now := time.Now().UTC()
	row := db.conn.QueryRow(
		"INSERT INTO tasks (external_id, title, description, status, priority, due_date, creator_id, created_at, updated_at) "+
			"VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8) "+
			"RETURNING id, external_id, title, description, status, priority, due_date, creator_id, created_at, updated_at",
		params.ExternalId,
		params.Title,
		params.Description,
		params.Status,
		params.Priority,
		params.DueDate,
		params.CreatorId,
		now,
	)

	var t Task
	err := scanTask(row, &t)
	if err != nil {
		return Task{}, err
	}

	if err := db.AddTaskMember(t.Id, t.CreatorId); err != nil {
		return Task{}, err
	}

	t.Members, err = db.GetTaskMembers(t.Id)
	return t, err
}

func (db *PgTaskManagerRepository) UpdateTask(params UpdateTaskParams) (Task, error) {
	row := db.conn.QueryRow(
		"UPDATE tasks SET title = $2, description = $3, status = $4, priority = $5, due_date = $6, updated_at = $7 "+
			"WHERE id = $1 "+
			"RETURNING id, external_id, title, description, status, priority, due_date, creator_id, created_at, updated_at",
		params.TaskId,
		params.Title,
		params.Description,
		params.Status,
		params.Priority,
		params.DueDate,
		time.Now().UTC(),
	)

	var t Task
	if err := scanTask(row, &t); err != nil {
		return Task{}, err
	}

	var err error
	t.Members, err = db.GetTaskMembers(t.Id)
	return t, err
}

func (db *PgTaskManagerRepository) GetTaskById(taskId int) (Task, error) {
	row := db.conn.QueryRow(
		"SELECT id, external_id, title, description, status, priority, due_date, creator_id, created_at, updated_at "+
			"FROM tasks WHERE id = $1 LIMIT 1",
		taskId,
	)

	var t Task
	if err := scanTask(row, &t); err != nil {
		return Task{}, err
	}

	var err error
	t.Members, err = db.GetTaskMembers(t.Id)
	return t, err
}

func (db *PgTaskManagerRepository) ListTasksForUser(userId int) ([]Task, error) {
	rows, err := db.conn.Query(
		"SELECT DISTINCT t.id, t.external_id, t.title, t.description, t.status, t.priority, t.due_date, t.creator_id, t.created_at, t.updated_at "+
			"FROM tasks t LEFT JOIN task_members tm ON tm.task_id = t.id "+
			"WHERE t.creator_id = $1 OR tm.user_id = $1 "+
			"ORDER BY t.updated_at DESC",
		userId,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return db.collectTasks(rows)
}

func (db *PgTaskManagerRepository) ListTasks() ([]Task, error) {
	rows, err := db.conn.Query(
		"SELECT id, external_id, title, description, status, priority, due_date, creator_id, created_at, updated_at " +
			"FROM tasks ORDER BY updated_at DESC",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return db.collectTasks(rows)
}

func (db *PgTaskManagerRepository) collectTasks(rows *sql.Rows) ([]Task, error) {
	var tasks []Task
	for rows.Next() {
		var t Task
		if err := rows.Scan(
			&t.Id,
			&t.ExternalId,
			&t.Title,
			&t.Description,
			&t.Status,
			&t.Priority,
			&t.DueDate,
			&t.CreatorId,
			&t.CreatedAt,
			&t.UpdatedAt,
		); err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range tasks {
		members, err := db.GetTaskMembers(tasks[i].Id)
		if err != nil {
			return nil, err
		}
		tasks[i].Members = members
	}

	return tasks, nil
}

func (db *PgTaskManagerRepository) DeleteTask(taskId int) error {
	res, err := db.conn.Exec("DELETE FROM tasks WHERE id = $1", taskId)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}

	return nil
}

func (db *PgTaskManagerRepository) AddTaskMember(taskId, userId int) error {
	_, err := db.conn.Exec(
		"INSERT INTO task_members (task_id, user_id, created_at) VALUES ($1, $2, $3) "+
			"ON CONFLICT (task_id, user_id) DO NOTHING",
		taskId,
		userId,
		time.Now().UTC(),
	)
	return err
}

func (db *PgTaskManagerRepository) RemoveTaskMember(taskId, userId int) error {
	_, err := db.conn.Exec(
		"DELETE FROM task_members WHERE task_id = $1 AND user_id = $2",
		taskId,
		userId,
	)
	return err
}

func (db *PgTaskManagerRepository) GetTaskMembers(taskId int) ([]User, error) {
	rows, err := db.conn.Query(
		"SELECT u.id, u.username, u.email, u.role, u.created_at, u.updated_at "+
			"FROM users u JOIN task_members tm ON tm.user_id = u.id "+
			"WHERE tm.task_id = $1 ORDER BY u.username",
		taskId,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		var u User
		if err := rows.Scan(
			&u.Id,
			&u.Username,
			&u.EmailAddress,
			&u.Role,
			&u.CreatedAt,
			&u.UpdatedAt,
		); err != nil {
			return nil, err
		}
		users = append(users, u)
	}

	return users, rows.Err()
}

func (db *PgTaskManagerRepository) IsTaskMember(taskId, userId int) bool {
	var exists bool
	err := db.conn.QueryRow(
		"SELECT EXISTS (SELECT 1 FROM task_members WHERE task_id = $1 AND user_id = $2)",
		taskId,
		userId,
	).Scan(&exists)

	return err == nil && exists
}

func (db *PgTaskManagerRepository) CreateDirectMessage(msg DirectMessage) (DirectMessage, error) {
	row := db.conn.QueryRow(
		"INSERT INTO direct_messages (from_user_id, to_user_id, content, created_at) "+
			"VALUES ($1, $2, $3, $4) RETURNING id, from_user_id, to_user_id, content, created_at",
		msg.FromUserId,
		msg.ToUserId,
		msg.Content,
		time.Now().UTC(),
	)

	var m DirectMessage
	err := row.Scan(
		&m.Id,
		&m.FromUserId,
		&m.ToUserId,
		&m.Content,
		&m.CreatedAt,
	)

	return m, err
}

func (db *PgTaskManagerRepository) GetDirectMessages(userId, peerId, before, limit int) ([]DirectMessage, error) {
	rows, err := db.conn.Query(
		"SELECT id, from_user_id, to_user_id, content, created_at FROM direct_messages "+
			"WHERE (($1 = from_user_id AND $2 = to_user_id) OR ($2 = from_user_id AND $1 = to_user_id)) "+
			"AND ($3 = 0 OR id < $3) "+
			"ORDER BY id DESC LIMIT $4",
		userId,
		peerId,
		before,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []DirectMessage
	for rows.Next() {
		var m DirectMessage
		if err := rows.Scan(
			&m.Id,
			&m.FromUserId,
			&m.ToUserId,
			&m.Content,
			&m.CreatedAt,
		); err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}

	return msgs, rows.Err()
}

func (db *PgTaskManagerRepository) CreateTaskMessage(msg TaskMessage) (TaskMessage, error) {
	row := db.conn.QueryRow(
		"INSERT INTO task_messages (task_id, user_id, content, created_at) "+
			"VALUES ($1, $2, $3, $4) RETURNING id, task_id, user_id, content, created_at",
		msg.TaskId,
		msg.UserId,
		msg.Content,
		time.Now().UTC(),
	)

	var m TaskMessage
	err := row.Scan(
		&m.Id,
		&m.TaskId,
		&m.UserId,
		&m.Content,
		&m.CreatedAt,
	)

	return m, err
}

func (db *PgTaskManagerRepository) GetTaskMessages(taskId, before, limit int) ([]TaskMessage, error) {
	rows, err := db.conn.Query(
		"SELECT id, task_id, user_id, content, created_at FROM task_messages "+
			"WHERE task_id = $1 AND ($2 = 0 OR id < $2) "+
			"ORDER BY id DESC LIMIT $3",
		taskId,
		before,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []TaskMessage
	for rows.Next() {
		var m TaskMessage
		if err := rows.Scan(
			&m.Id,
			&m.TaskId,
			&m.UserId,
			&m.Content,
			&m.CreatedAt,
		); err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}

	return msgs, rows.Err()
}

func (db *PgTaskManagerRepository) CreateFile(params CreateFileParams) (File, error) {
	row := db.conn.QueryRow(
		"INSERT INTO files (task_id, uploader_id, name, object_name, size, content_type, created_at) "+
			"VALUES ($1, $2, $3, $4, $5, $6, $7) "+
			"RETURNING id, task_id, uploader_id, name, object_name, size, content_type, created_at",
		params.TaskId,
		params.UploaderId,
		params.Name,
		params.ObjectName,
		params.Size,
		params.ContentType,
		time.Now().UTC(),
	)

	var f File
	err := scanFile(row, &f)
	return f, err
}

func (db *PgTaskManagerRepository) GetFileById(fileId int) (File, error) {
	row := db.conn.QueryRow(
		"SELECT id, task_id, uploader_id, name, object_name, size, content_type, created_at "+
			"FROM files WHERE id = $1 LIMIT 1",
		fileId,
	)

	var f File
	err := scanFile(row, &f)
	return f, err
}

func (db *PgTaskManagerRepository) ListFilesByTask(taskId int) ([]File, error) {
	rows, err := db.conn.Query(
		"SELECT id, task_id, uploader_id, name, object_name, size, content_type, created_at "+
			"FROM files WHERE task_id = $1 ORDER BY id DESC",
		taskId,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var files []File
	for rows.Next() {
		var f File
		if err := rows.Scan(
			&f.Id,
			&f.TaskId,
			&f.UploaderId,
			&f.Name,
			&f.ObjectName,
			&f.Size,
			&f.ContentType,
			&f.CreatedAt,
		); err != nil {
			return nil, err
		}
		files = append(files, f)
	}

	return files, rows.Err()
}

func (db *PgTaskManagerRepository) DeleteFile(fileId int) error {
	res, err := db.conn.Exec("DELETE FROM files WHERE id = $1", fileId)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}

	return nil
}

func (db *PgTaskManagerRepository) CreateNotification(params CreateNotificationParams) (Notification, error) {
	row := db.conn.QueryRow(
		"INSERT INTO notifications (user_id, title, description, variant, created_at) "+
			"VALUES ($1, $2, $3, $4, $5) "+
			"RETURNING id, user_id, title, description, variant, read, created_at",
		params.UserId,
		params.Title,
		params.Description,
		params.Variant,
		time.Now().UTC(),
	)

	var n Notification
	err := row.Scan(
		&n.Id,
		&n.UserId,
		&n.Title,
		&n.Description,
		&n.Variant,
		&n.Read,
		&n.CreatedAt,
	)

	return n, err
}

func (db *PgTaskManagerRepository) ListNotifications(userId int) ([]Notification, error) {
	rows, err := db.conn.Query(
		"SELECT id, user_id, title, description, variant, read, created_at "+
			"FROM notifications WHERE user_id = $1 ORDER BY id DESC",
		userId,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []Notification
	for rows.Next() {
		var n Notification
		if err := rows.Scan(
			&n.Id,
			&n.UserId,
			&n.Title,
			&n.Description,
			&n.Variant,
			&n.Read,
			&n.CreatedAt,
		); err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}

	return notifications, rows.Err()
}

func (db *PgTaskManagerRepository) MarkNotificationRead(notificationId, userId int) error {
	res, err := db.conn.Exec(
		"UPDATE notifications SET read = TRUE WHERE id = $1 AND user_id = $2",
		notificationId,
		userId,
	)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}

	return nil
}

func (db *PgTaskManagerRepository) MarkAllNotificationsRead(userId int) error {
	_, err := db.conn.Exec(
		"UPDATE notifications SET read = TRUE WHERE user_id = $1 AND read = FALSE",
		userId,
	)
	return err
}

func (db *PgTaskManagerRepository) CreateReminder(params CreateReminderParams) (Reminder, error) {
	row := db.conn.QueryRow(
		"INSERT INTO reminders (user_id, task_id, note, remind_at, created_at) "+
			"VALUES ($1, $2, $3, $4, $5) RETURNING id, user_id, task_id, note, remind_at, created_at",
		params.UserId,
		params.TaskId,
		params.Note,
		params.RemindAt,
		time.Now().UTC(),
	)

	var rem Reminder
	err := row.Scan(
		&rem.Id,
		&rem.UserId,
		&rem.TaskId,
		&rem.Note,
		&rem.RemindAt,
		&rem.CreatedAt,
	)

	return rem, err
}

func (db *PgTaskManagerRepository) ListReminders(userId int) ([]Reminder, error) {
	rows, err := db.conn.Query(
		"SELECT id, user_id, task_id, note, remind_at, created_at "+
			"FROM reminders WHERE user_id = $1 ORDER BY remind_at",
		userId,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reminders []Reminder
	for rows.Next() {
		var rem Reminder
		if err := rows.Scan(
			&rem.Id,
			&rem.UserId,
			&rem.TaskId,
			&rem.Note,
			&rem.RemindAt,
			&rem.CreatedAt,
		); err != nil {
			return nil, err
		}
		reminders = append(reminders, rem)
	}

	return reminders, rows.Err()
}

func (db *PgTaskManagerRepository) DeleteReminder(reminderId, userId int) error {
	res, err := db.conn.Exec(
		"DELETE FROM reminders WHERE id = $1 AND user_id = $2",
		reminderId,
		userId,
	)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}

	return nil
}

func scanTask(row *sql.Row, t *Task) error {
	return row.Scan(
		&t.Id,
		&t.ExternalId,
		&t.Title,
		&t.Description,
		&t.Status,
		&t.Priority,
		&t.DueDate,
		&t.CreatorId,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
}

func scanFile(row *sql.Row, f *File) error {
	return row.Scan(
		&f.Id,
		&f.TaskId,
		&f.UploaderId,
		&f.Name,
		&f.ObjectName,
		&f.Size,
		&f.ContentType,
		&f.CreatedAt,
	)
}
