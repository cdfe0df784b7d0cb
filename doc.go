// Package bgserve serves local files, directories, in-memory content and S3
// objects over HTTP from a background server, so a host process can hand out
// URLs for ad-hoc data without running a standalone web server.
//
// A Provider owns a resource registry and a background httpserver.Server.
// Each Create call derives a content-addressed identifier, registers the
// resource and starts the server if it is not running yet:
//
//	p := bgserve.New()
//	defer p.Close(context.Background())
//
//	h, err := p.Create(ctx, "data/sample.bam")
//	if err != nil {
//		return err
//	}
//	fmt.Println(h.URL) // http://localhost:<port>/resources/<hash>-sample.bam
//
// Resources answer GET and HEAD with full (200) or single-range partial (206)
// content and 416 for ranges they cannot satisfy. Directory resources serve
// any regular file below their root by relative path and refuse paths that
// escape it.
//
// URLs are rewritten for notebook environments: WithProxy produces
// /proxy/<port>/... for jupyter-server-proxy, and JUPYTERHUB_SERVICE_PREFIX
// (or WithJupyterHubPrefix) yields <prefix>/proxy/<port>/....
//
// HiGlass tilesets registered with CreateTileset are served by the tileset
// API under /tilesets/api/v1/.
package bgserve
