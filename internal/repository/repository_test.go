// Copyright 2025 The wp-kleenexd Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/types"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/client/fake"
	"sigs.k8s.io/controller-runtime/pkg/client/interceptor"

	wordpressv2 "github.com/epfl-si/wp-kleenexd/api/v2"
	"github.com/epfl-si/wp-kleenexd/internal/auth"
	"github.com/epfl-si/wp-kleenexd/internal/resource"
	"github.com/epfl-si/wp-kleenexd/internal/site"
)

const (
	testNamespace = "wordpress-test"
	testHostname  = "wp-kleenex.epfl.ch"
)

var _ = Describe("Repository", func() {
	var (
		ctx        context.Context
		scheme     *runtime.Scheme
		fakeClient client.Client
		repo       *Repository

		admin  auth.Caller
		alice  auth.Caller
		bob    auth.Caller
		nobody auth.Caller
	)

	newRepo := func(c client.Client) *Repository {
		return New(c, testNamespace, testHostname)
	}

	seedSite := func(c client.Client, id string, owner site.OwnerID, createdAt time.Time) {
		s := &site.Site{
			ID:                id,
			Hostname:          testHostname,
			Path:              site.PathForID(id),
			Owner:             owner,
			Type:              site.TypeBasic,
			ExpirationSeconds: site.Expiration3h,
			Wordpress: site.Wordpress{
				Title:     "Seeded",
				Tagline:   "seeded site",
				Theme:     "wp-theme-2018",
				Languages: []string{"en"},
				Plugins:   []string{},
			},
		}
		obj := resource.NewMapper(testNamespace).ToResource(s)
		obj.CreationTimestamp = metav1.NewTime(createdAt)
		Expect(c.Create(ctx, obj)).To(Succeed())
	}

	BeforeEach(func() {
		ctx = context.Background()
		scheme = runtime.NewScheme()
		Expect(wordpressv2.AddToScheme(scheme)).To(Succeed())
		fakeClient = fake.NewClientBuilder().WithScheme(scheme).Build()
		repo = newRepo(fakeClient)

		admin = auth.Caller{ID: site.OwnerID("999999"), Role: auth.RoleAdmin}
		alice = auth.Caller{ID: site.OwnerID("111111"), Role: auth.RoleMember}
		bob = auth.Caller{ID: site.OwnerID("222222"), Role: auth.RoleMember}
		nobody = auth.Caller{}
	})

	Describe("Create", func() {
		It("rejects unauthenticated callers without touching the store", func() {
			_, err := repo.Create(ctx, nobody, site.CreateRequest{Title: "x"})
			Expect(err).To(MatchError(ErrUnauthorized))

			var objects wordpressv2.WordpressSiteList
			Expect(fakeClient.List(ctx, &objects)).To(Succeed())
			Expect(objects.Items).To(BeEmpty())
		})

		It("persists a marked object owned by the caller", func() {
			created, err := repo.Create(ctx, alice, site.CreateRequest{
				Title:      "Lab X",
				Tagline:    "sandbox",
				Theme:      "wp-theme-2018",
				Languages:  []string{"en", "fr"},
				Type:       "basic",
				Expiration: site.Expiration3h,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(created.ID).NotTo(BeEmpty())
			Expect(created.Path).To(Equal("/" + created.ID))
			Expect(created.Owner).To(Equal(alice.ID))

			var obj wordpressv2.WordpressSite
			key := types.NamespacedName{Name: resource.ObjectName(created.ID), Namespace: testNamespace}
			Expect(fakeClient.Get(ctx, key, &obj)).To(Succeed())
			Expect(obj.Labels).To(HaveKeyWithValue(resource.ManagedByLabel, resource.ManagedByValue))
			Expect(obj.Annotations).To(HaveKeyWithValue(testHostname+"/owner", "111111"))
			Expect(obj.Spec.Wordpress.Title).To(Equal("Lab X"))
		})

		It("wraps store failures such as name collisions", func() {
			failing := fake.NewClientBuilder().
				WithScheme(scheme).
				WithInterceptorFuncs(interceptor.Funcs{
					Create: func(ctx context.Context, c client.WithWatch, obj client.Object, opts ...client.CreateOption) error {
						return fmt.Errorf("the server is unavailable")
					},
				}).
				Build()

			_, err := newRepo(failing).Create(ctx, alice, site.CreateRequest{Title: "x"})

			var storeErr *StoreError
			Expect(errors.As(err, &storeErr)).To(BeTrue())
			Expect(storeErr.Op).To(Equal("create"))
		})
	})

	Describe("List", func() {
		It("requires authentication", func() {
			_, err := repo.List(ctx, nobody)
			Expect(err).To(MatchError(ErrUnauthorized))
		})

		It("returns an empty slice, not nil, when nothing exists", func() {
			sites, err := repo.List(ctx, alice)
			Expect(err).NotTo(HaveOccurred())
			Expect(sites).NotTo(BeNil())
			Expect(sites).To(BeEmpty())
		})

		It("filters out objects lacking the management marker", func() {
			seedSite(fakeClient, "mine-1", alice.ID, time.Now())

			foreign := &wordpressv2.WordpressSite{
				ObjectMeta: metav1.ObjectMeta{
					Name:      "wp-kleenex-foreign",
					Namespace: testNamespace,
					Labels:    map[string]string{"app.kubernetes.io/managed-by": "helm"},
				},
				Spec: wordpressv2.WordpressSiteSpec{Hostname: testHostname},
			}
			Expect(fakeClient.Create(ctx, foreign)).To(Succeed())

			sites, err := repo.List(ctx, alice)
			Expect(err).NotTo(HaveOccurred())
			Expect(sites).To(HaveLen(1))
			Expect(sites[0].ID).To(Equal("mine-1"))
		})

		It("reports store failures as a nil slice and a StoreError", func() {
			failing := fake.NewClientBuilder().
				WithScheme(scheme).
				WithInterceptorFuncs(interceptor.Funcs{
					List: func(ctx context.Context, c client.WithWatch, list client.ObjectList, opts ...client.ListOption) error {
						return fmt.Errorf("connection refused")
					},
				}).
				Build()

			sites, err := newRepo(failing).List(ctx, alice)
			Expect(sites).To(BeNil())

			var storeErr *StoreError
			Expect(errors.As(err, &storeErr)).To(BeTrue())
		})
	})

	Describe("ListForOwner", func() {
		It("scopes the listing to the given owner", func() {
			seedSite(fakeClient, "alice-1", alice.ID, time.Now())
			seedSite(fakeClient, "alice-2", alice.ID, time.Now())
			seedSite(fakeClient, "bob-1", bob.ID, time.Now())

			sites, err := repo.ListForOwner(ctx, alice, alice.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(sites).To(HaveLen(2))
			for _, s := range sites {
				Expect(s.Owner).To(Equal(alice.ID))
			}
		})
	})

	Describe("Delete", func() {
		BeforeEach(func() {
			seedSite(fakeClient, "alice-1", alice.ID, time.Now())
			seedSite(fakeClient, "bob-1", bob.ID, time.Now())
		})

		It("rejects unauthenticated callers", func() {
			Expect(repo.Delete(ctx, nobody, "alice-1")).To(MatchError(ErrUnauthorized))
		})

		It("forbids members from deleting sites they do not own, with no store mutation", func() {
			Expect(repo.Delete(ctx, alice, "bob-1")).To(MatchError(ErrForbidden))

			var obj wordpressv2.WordpressSite
			key := types.NamespacedName{Name: resource.ObjectName("bob-1"), Namespace: testNamespace}
			Expect(fakeClient.Get(ctx, key, &obj)).To(Succeed())
		})

		It("lets members delete their own sites", func() {
			Expect(repo.Delete(ctx, alice, "alice-1")).To(Succeed())

			var obj wordpressv2.WordpressSite
			key := types.NamespacedName{Name: resource.ObjectName("alice-1"), Namespace: testNamespace}
			Expect(fakeClient.Get(ctx, key, &obj)).NotTo(Succeed())
		})

		It("lets admins delete any site", func() {
			Expect(repo.Delete(ctx, admin, "alice-1")).To(Succeed())
			Expect(repo.Delete(ctx, admin, "bob-1")).To(Succeed())
		})

		It("reports a missing site as not found", func() {
			Expect(repo.Delete(ctx, admin, "no-such-site")).To(MatchError(ErrNotFound))
		})
	})

	Describe("DeleteExpired", func() {
		It("is admin only", func() {
			Expect(repo.DeleteExpired(ctx, alice, "whatever")).To(MatchError(ErrForbidden))
			Expect(repo.DeleteExpired(ctx, nobody, "whatever")).To(MatchError(ErrUnauthorized))
		})

		It("treats an already-deleted site as success", func() {
			Expect(repo.DeleteExpired(ctx, admin, "already-gone")).To(Succeed())
		})

		It("still surfaces real store failures", func() {
			failing := fake.NewClientBuilder().
				WithScheme(scheme).
				WithInterceptorFuncs(interceptor.Funcs{
					Delete: func(ctx context.Context, c client.WithWatch, obj client.Object, opts ...client.DeleteOption) error {
						return fmt.Errorf("etcdserver: request timed out")
					},
				}).
				Build()

			err := newRepo(failing).DeleteExpired(ctx, admin, "some-site")

			var storeErr *StoreError
			Expect(errors.As(err, &storeErr)).To(BeTrue())
		})
	})
})
