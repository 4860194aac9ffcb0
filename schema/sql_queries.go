package schema

// Redshift star schema for the Sparkify song-play warehouse: two staging tables loaded by COPY,
// one fact table and four dimension tables.

const (
	stagingEventsTableDrop = "DROP TABLE IF EXISTS staging_events"
	stagingSongsTableDrop  = "DROP TABLE IF EXISTS staging_songs"
	songplayTableDrop      = "DROP TABLE IF EXISTS songplays"
	userTableDrop          = "DROP TABLE IF EXISTS users"
	songTableDrop          = "DROP TABLE IF EXISTS songs"
	artistTableDrop        = "DROP TABLE IF EXISTS artists"
	timeTableDrop          = "DROP TABLE IF EXISTS time"
)

const stagingEventsTableCreate = `CREATE TABLE staging_events (
    artist          VARCHAR,
    auth            VARCHAR,
    firstName       VARCHAR,
    gender          VARCHAR(1),
    itemInSession   INTEGER,
    lastName        VARCHAR,
    length          FLOAT,
    level           VARCHAR,
    location        VARCHAR,
    method          VARCHAR,
    page            VARCHAR,
    registration    BIGINT,
    sessionId       INTEGER,
    song            VARCHAR,
    status          INTEGER,
    ts              BIGINT,
    userAgent       VARCHAR,
    userId          INTEGER
)`

const stagingSongsTableCreate = `CREATE TABLE staging_songs (
    num_songs           INTEGER,
    artist_id           VARCHAR,
    artist_latitude     FLOAT,
    artist_longitude    FLOAT,
    artist_location     VARCHAR(65535),
    artist_name         VARCHAR(65535),
    song_id             VARCHAR,
    title               VARCHAR(65535),
    duration            FLOAT,
    year                INTEGER
)`

const songplayTableCreate = `CREATE TABLE songplays (
    songplay_id     INTEGER IDENTITY(0,1) PRIMARY KEY,
    start_time      TIMESTAMP NOT NULL SORTKEY,
    user_id         INTEGER NOT NULL,
    level           VARCHAR,
    song_id         VARCHAR DISTKEY,
    artist_id       VARCHAR,
    session_id      INTEGER,
    location        VARCHAR(65535),
    user_agent      VARCHAR(65535)
)`

const userTableCreate = `CREATE TABLE users (
    user_id         INTEGER PRIMARY KEY SORTKEY,
    first_name      VARCHAR,
    last_name       VARCHAR,
    gender          VARCHAR(1),
    level           VARCHAR
) DISTSTYLE ALL`

const songTableCreate = `CREATE TABLE songs (
    song_id         VARCHAR PRIMARY KEY SORTKEY DISTKEY,
    title           VARCHAR(65535) NOT NULL,
    artist_id       VARCHAR NOT NULL,
    year            INTEGER,
    duration        FLOAT
)`

const artistTableCreate = `CREATE TABLE artists (
    artist_id       VARCHAR PRIMARY KEY SORTKEY,
    name            VARCHAR(65535) NOT NULL,
    location        VARCHAR(65535),
    latitude        FLOAT,
    longitude       FLOAT
) DISTSTYLE ALL`

const timeTableCreate = `CREATE TABLE time (
    start_time      TIMESTAMP PRIMARY KEY SORTKEY,
    hour            INTEGER,
    day             INTEGER,
    week            INTEGER,
    month           INTEGER,
    year            INTEGER,
    weekday         INTEGER
) DISTSTYLE ALL`

var dropTableQueries = []string{
	stagingEventsTableDrop,
	stagingSongsTableDrop,
	songplayTableDrop,
	userTableDrop,
	songTableDrop,
	artistTableDrop,
	timeTableDrop,
}

var createTableQueries = []string{
	stagingEventsTableCreate,
	stagingSongsTableCreate,
	songplayTableCreate,
	userTableCreate,
	songTableCreate,
	artistTableCreate,
	timeTableCreate,
}
