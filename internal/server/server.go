package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/gobuffalo/packr"
	grpcmiddleware "github.com/grpc-ecosystem/go-grpc-middleware"
	grpcauth "github.com/grpc-ecosystem/go-grpc-middleware/auth"
	grpclogrus "github.com/grpc-ecosystem/go-grpc-middleware/logging/logrus"
	grpcrecovery "github.com/grpc-ecosystem/go-grpc-middleware/recovery"
	grpcvalidator "github.com/grpc-ecosystem/go-grpc-middleware/validator"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	v1 "github.com/emrgen/notion/apis/v1"
	"github.com/emrgen/notion/internal/auth"
	"github.com/emrgen/notion/internal/config"
	"github.com/emrgen/notion/internal/jobs"
	"github.com/emrgen/notion/internal/store"
)

// Server represents the server
type Server struct {
	grpcPort string
	httpPort string
}

// NewServer creates a new server
func NewServer(grpcPort, httpPort string) *Server {
	return &Server{
		grpcPort: grpcPort,
		httpPort: httpPort,
	}
}

// Start starts the server
func (s *Server) Start() {
	cnf, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("error loading config: %v", err)
	}
	if s.grpcPort != "" {
		cnf.GrpcPort = s.grpcPort
	}
	if s.httpPort != "" {
		cnf.HttpPort = s.httpPort
	}

	if err := Start(cnf); err != nil {
		logrus.Fatalf("error starting server: %v", err)
	}
}

// NewGrpcServer creates the grpc server of the document service with its interceptor chain.
func NewGrpcServer(verifier auth.Verifier, srv v1.DocumentServiceServer) *grpc.Server {
	entry := logrus.NewEntry(logrus.StandardLogger())
	authFunc := auth.AuthFunc(verifier)

	grpcServer := grpc.NewServer(
		grpc.UnaryInterceptor(grpcmiddleware.ChainUnaryServer(
			grpcrecovery.UnaryServerInterceptor(),
			grpclogrus.UnaryServerInterceptor(entry),
			// log the request time
			UnaryGrpcRequestTimeInterceptor(),
			UnaryErrorInterceptor(),
			// verify the token and inject the caller identity into the context
			grpcauth.UnaryServerInterceptor(authFunc),
			grpcvalidator.UnaryServerInterceptor(),
		)),
		grpc.StreamInterceptor(grpcmiddleware.ChainStreamServer(
			grpcrecovery.StreamServerInterceptor(),
			grpclogrus.StreamServerInterceptor(entry),
			StreamErrorInterceptor(),
			grpcauth.StreamServerInterceptor(authFunc),
			grpcvalidator.StreamServerInterceptor(),
		)),
	)
	v1.RegisterDocumentServiceServer(grpcServer, srv)

	return grpcServer
}

// NewHttpHandler serves the rest gateway and the api documentation.
func NewHttpHandler(gateway http.Handler) http.Handler {
	apiMux := http.NewServeMux()
	openapiDocs := packr.NewBox("../../docs/v1")
	docsPath := "/v1/docs/"
	apiMux.Handle(docsPath, http.StripPrefix(docsPath, http.FileServer(openapiDocs)))
	apiMux.Handle("/", gateway)

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"}, // All origins are allowed
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "PUT"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	return c.Handler(apiMux)
}

// Start starts the grpc and http servers and blocks until the process is signalled.
func Start(cnf *config.Config) error {
	logrus.SetLevel(cnf.LogLevel)

	grpcPort := ":" + cnf.GrpcPort
	httpPort := ":" + cnf.HttpPort

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rdb, err := config.GetDb(cnf)
	if err != nil {
		return err
	}
	docStore := store.NewGormStore(rdb)
	if err = docStore.Migrate(); err != nil {
		return err
	}

	app, err := NewApp(ctx, cnf, docStore)
	if err != nil {
		return err
	}
	defer app.Close()

	gl, err := net.Listen("tcp", grpcPort)
	if err != nil {
		return err
	}

	rl, err := net.Listen("tcp", httpPort)
	if err != nil {
		return err
	}

	grpcServer := NewGrpcServer(app.Verifier, app.Service)

	// connect the rest gateway to the grpc server
	conn, err := grpc.NewClient("localhost"+grpcPort,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(UnaryRequestTimeInterceptor()),
	)
	if err != nil {
		return err
	}
	defer conn.Close()

	mux, err := NewGateway(v1.NewDocumentServiceClient(conn))
	if err != nil {
		return err
	}

	restServer := &http.Server{
		Addr:              httpPort,
		Handler:           NewHttpHandler(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}

	executor := jobs.NewTaskExecutor(nil, []jobs.CronJob{
		jobs.NewCascadeRepairTask(cnf.Cascade.RepairSchedule, docStore, app.Service.Cascades()),
		jobs.NewCascadeReaperTask("@every 1m", cnf.Cascade.Retention, app.Service.Cascades()),
	})
	if err := executor.Run(); err != nil {
		return err
	}
	defer executor.Stop()

	// make sure to wait for the servers to stop before exiting
	var wg sync.WaitGroup

	wg.Add(1)
	// Start the rest gateway
	go func() {
		defer wg.Done()
		logrus.Info("starting rest gateway on: ", httpPort)
		logrus.Info("click on the following link to view the API documentation: http://localhost", httpPort, "/v1/docs/")
		if err := restServer.Serve(rl); err != nil {
			if !errors.Is(err, http.ErrServerClosed) {
				logrus.Errorf("error starting rest gateway: %v", err)
			}
		}
		logrus.Infof("rest gateway stopped")
	}()

	// Start the grpc server
	wg.Add(1)
	go func() {
		defer wg.Done()
		logrus.Info("starting grpc server on: ", grpcPort)
		if err := grpcServer.Serve(gl); err != nil {
			logrus.Infof("grpc failed to start: %v", err)
		}
		logrus.Infof("grpc server stopped")
	}()

	logrus.Infof("Press Ctrl+C to stop the server")

	// listen for interrupt signal to gracefully shut down the server
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, unix.SIGTERM, unix.SIGINT, unix.SIGTSTP)
	<-sigs
	// clean Ctrl+C output
	fmt.Println()

	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	if err = restServer.Shutdown(shutdownCtx); err != nil {
		logrus.Errorf("error stopping rest gateway: %v", err)
	}
	// watch streams never end on their own
	grpcServer.Stop()

	wg.Wait()

	return nil
}
