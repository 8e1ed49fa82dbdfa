package image

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/docker/docker/api/types/build"
	"github.com/docker/docker/api/types/image"
	registrytypes "github.com/docker/docker/api/types/registry"
	"github.com/docker/docker/pkg/jsonmessage"
	"github.com/moby/term"

	"visionatrix-exapp/internal/domain/model"
	"visionatrix-exapp/internal/domain/repository"
	"visionatrix-exapp/pkg/log"
)

// imageAPI is the part of the docker SDK client used here.
type imageAPI interface {
	ImageBuild(ctx context.Context, buildContext io.Reader, options build.ImageBuildOptions) (build.ImageBuildResponse, error)
	ImagePush(ctx context.Context, image string, options image.PushOptions) (io.ReadCloser, error)
}

// dockerImageRepository builds single-platform images through the docker
// SDK and hands multi-platform plans to `docker buildx`, which the classic
// builder API cannot produce.
type dockerImageRepository struct {
	api    imageAPI
	runner repository.CommandRunner
	out    io.Writer
	mu     sync.Mutex
}

var _ repository.ImageRepository = (*dockerImageRepository)(nil)

// NewDockerImageRepository creates the repository. Build and push progress
// is rendered to out.
func NewDockerImageRepository(api imageAPI, runner repository.CommandRunner, out io.Writer) repository.ImageRepository {
	if out == nil {
		out = io.Discard
	}
	return &dockerImageRepository{api: api, runner: runner, out: out}
}

func (r *dockerImageRepository) Build(ctx context.Context, plan model.BuildPlan) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if plan.MultiPlatform() {
		return r.buildx(ctx, plan)
	}
	return r.sdkBuild(ctx, plan)
}

func (r *dockerImageRepository) sdkBuild(ctx context.Context, plan model.BuildPlan) error {
	tarball, err := ContextTar(plan.ContextDir, plan.Dockerfile)
	if err != nil {
		return fmt.Errorf("failed to create build context: %w", err)
	}
	defer tarball.Close()

	args := make(map[string]*string, len(plan.BuildArgs()))
	for k, v := range plan.BuildArgs() {
		args[k] = &v
	}

	opts := build.ImageBuildOptions{
		Tags:        []string{plan.Ref.String()},
		Dockerfile:  dockerfileInContext(plan.ContextDir, plan.Dockerfile),
		BuildArgs:   args,
		Remove:      true,
		ForceRemove: true,
	}
	if len(plan.Platforms) == 1 {
		opts.Platform = plan.Platforms[0]
	}

	log.Info("[Image] building", "image", plan.Ref.String(), "build_type", plan.BuildType, "platform", opts.Platform)
	resp, err := r.api.ImageBuild(ctx, tarball, opts)
	if err != nil {
		return fmt.Errorf("image build failed: %w", err)
	}
	defer resp.Body.Close()

	if err := r.display(resp.Body); err != nil {
		return fmt.Errorf("image build failed: %w", err)
	}
	log.Info("[Image] built", "image", plan.Ref.String())
	return nil
}

func (r *dockerImageRepository) buildx(ctx context.Context, plan model.BuildPlan) error {
	args := BuildxArgs(plan)
	log.Info("[Image] building with buildx", "image", plan.Ref.String(), "platforms", strings.Join(plan.Platforms, ","), "push", plan.Push)

	if _, err := r.runner.Run(ctx, "", "docker", args...); err != nil {
		return fmt.Errorf("docker buildx build failed: %w", err)
	}
	log.Info("[Image] built", "image", plan.Ref.String())
	return nil
}

func (r *dockerImageRepository) Push(ctx context.Context, ref model.ImageReference, creds model.RegistryCredentials) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	opts := image.PushOptions{}
	if !creds.Empty() {
		auth, err := registrytypes.EncodeAuthConfig(registrytypes.AuthConfig{
			Username:      creds.Username,
			Password:      creds.Password,
			ServerAddress: ref.Registry,
		})
		if err != nil {
			return fmt.Errorf("failed to encode registry auth: %w", err)
		}
		opts.RegistryAuth = auth
	}

	log.Info("[Image] pushing", "image", ref.String())
	body, err := r.api.ImagePush(ctx, ref.String(), opts)
	if err != nil {
		return fmt.Errorf("image push failed: %w", err)
	}
	defer body.Close()

	if err := r.display(body); err != nil {
		return fmt.Errorf("image push failed: %w", err)
	}
	log.Info("[Image] pushed", "image", ref.String())
	return nil
}

// display renders a docker JSON message stream and returns the first error
// message the daemon reported.
func (r *dockerImageRepository) display(stream io.Reader) error {
	fd, isTerminal := uintptr(0), false
	if f, ok := r.out.(*os.File); ok {
		fd, isTerminal = term.GetFdInfo(f)
	}
	return jsonmessage.DisplayJSONMessagesStream(stream, r.out, fd, isTerminal, nil)
}

// BuildxArgs returns the `docker` arguments for a buildx build of plan.
func BuildxArgs(plan model.BuildPlan) []string {
	args := []string{"buildx", "build"}
	if plan.Push {
		args = append(args, "--push")
	}
	args = append(args, "--platform", strings.Join(plan.Platforms, ","))

	buildArgs := plan.BuildArgs()
	keys := make([]string, 0, len(buildArgs))
	for k := range buildArgs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		args = append(args, "--build-arg", k+"="+buildArgs[k])
	}

	args = append(args, "-t", plan.Ref.String())
	if plan.Dockerfile != "" {
		args = append(args, "-f", plan.Dockerfile)
	}
	contextDir := plan.ContextDir
	if contextDir == "" {
		contextDir = "."
	}
	return append(args, contextDir)
}
