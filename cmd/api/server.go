package main

import (
	"context"
	"crypto/tls"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	mw "github.com/openshelf/library-api/internal/api/middlewares"
	"github.com/openshelf/library-api/internal/api/router"
	"github.com/openshelf/library-api/internal/repository/sqlconnect"
	"github.com/openshelf/library-api/pkg/utils"
)

func main() {
	_ = godotenv.Load()

	db, err := sqlconnect.ConnectDB()
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	defer db.Close()
	fmt.Println("✅ Connected to Postgres")

	// Redis backs the records cache and the rate limiter; both degrade
	// gracefully, so a missing REDIS_ADDR just runs without them.
	rdb := connectRedis()

	handler := router.Router(db, rdb)

	chain := []utils.Middleware{
		mw.Cors,
		mw.ResponseTime,
	}
	if rdb != nil {
		tb := mw.NewRedisTokenBucket(rdb, 5, 20, mw.PerIPKey("tb"))
		chain = append(chain, tb.Middleware)
	}
	chain = append(chain,
		mw.RequestID,
		mw.Recovery,
		mw.SecurityHeaders,
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	server := &http.Server{
		Addr:              ":" + port,
		Handler:           utils.ApplyMiddleware(handler, chain...),
		ReadHeaderTimeout: 5 * time.Second,
	}

	fmt.Println("Server is running on port:", port)

	cert, key := os.Getenv("TLS_CERT"), os.Getenv("TLS_KEY")
	if cert != "" && key != "" {
		server.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		log.Fatal(server.ListenAndServeTLS(cert, key))
	}
	log.Fatal(server.ListenAndServe())
}

func connectRedis() *redis.Client {
	var rdb *redis.Client

	if url := os.Getenv("UPSTASH_REDIS_URL"); url != "" {
		opt, err := redis.ParseURL(url) // e.g. rediss://default:<token>@host:port
		if err != nil {
			log.Fatalf("invalid UPSTASH_REDIS_URL: %v", err)
		}
		if opt.TLSConfig == nil {
			opt.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		opt.DialTimeout = 5 * time.Second
		opt.ReadTimeout = 1 * time.Second
		opt.WriteTimeout = 1 * time.Second
		rdb = redis.NewClient(opt)
	} else if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:         addr,
			Username:     os.Getenv("REDIS_USER"),
			Password:     os.Getenv("REDIS_PASSWORD"),
			DB:           0,
			DialTimeout:  2 * time.Second,
			ReadTimeout:  500 * time.Millisecond,
			WriteTimeout: 500 * time.Millisecond,
		})
	} else {
		log.Println("no Redis configured; cache and rate limiting disabled")
		return nil
	}

	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Fatalf("Redis connection failed: %v", err)
	}
	fmt.Println("✅ Connected to Redis")
	return rdb
}
