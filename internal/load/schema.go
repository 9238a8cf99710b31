package load

// Destination schema. Tables are dropped in reverse-dependency order and
// recreated; the class sequence restarts at 2 because slot 1 is reserved.

var dropStatements = []string{
	`DROP TABLE IF EXISTS requisite CASCADE;`,
	`DROP TABLE IF EXISTS section CASCADE;`,
	`DROP TABLE IF EXISTS room CASCADE;`,
	`DROP TABLE IF EXISTS meeting CASCADE;`,
	`DROP TABLE IF EXISTS class CASCADE;`,
}

var createStatements = []string{
	`CREATE TABLE class (
		cid serial PRIMARY KEY,
		cname varchar,
		ccode varchar,
		cdesc varchar,
		term varchar,
		years varchar,
		cred int,
		csyllabus varchar
	);`,
	`ALTER SEQUENCE class_cid_seq RESTART WITH 2;`,
	`CREATE TABLE requisite (
		classid integer REFERENCES class(cid),
		reqid integer REFERENCES class(cid),
		prereq boolean,
		PRIMARY KEY (classid, reqid),
		CONSTRAINT valid_class_ids CHECK (classid >= 2 AND reqid >= 2)
	);`,
	`CREATE TABLE room (
		rid serial PRIMARY KEY,
		building varchar,
		room_number varchar,
		capacity int
	);`,
	`CREATE TABLE meeting (
		mid serial PRIMARY KEY,
		ccode varchar,
		starttime timestamp,
		endtime timestamp,
		cdays varchar(5)
	);`,
	`CREATE TABLE section (
		sid serial PRIMARY KEY,
		roomid int REFERENCES room(rid),
		cid int REFERENCES class(cid),
		mid int REFERENCES meeting(mid),
		semester varchar,
		years varchar,
		capacity int,
		CONSTRAINT valid_class_id CHECK (cid >= 2)
	);`,
}

const (
	insertClass = `INSERT INTO class (cname, ccode, cdesc, term, years, cred, csyllabus)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	insertRoom = `INSERT INTO room (building, room_number, capacity)
		VALUES ($1, $2, $3) RETURNING rid`
	insertMeeting = `INSERT INTO meeting (ccode, starttime, endtime, cdays)
		VALUES ($1, $2, $3, $4) RETURNING mid`
	insertRequisite = `INSERT INTO requisite (classid, reqid, prereq)
		VALUES ($1, $2, $3)`
	insertSection = `INSERT INTO section (roomid, cid, mid, semester, years, capacity)
		VALUES ($1, $2, $3, $4, $5, $6)`
)
