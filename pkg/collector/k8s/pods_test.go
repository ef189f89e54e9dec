package k8s

import (
	"context"
	"testing"
	"time"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/resource"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes/fake"
	testingclock "k8s.io/utils/clock/testing"

	"github.com/kubetrim/kube-trim/pkg/measurement"
)

func newPod(namespace, name, image string, cpu, mem string) *corev1.Pod {
	requests := corev1.ResourceList{}
	if cpu != "" {
		requests[corev1.ResourceCPU] = resource.MustParse(cpu)
	}
	if mem != "" {
		requests[corev1.ResourceMemory] = resource.MustParse(mem)
	}

	return &corev1.Pod{
		ObjectMeta: metav1.ObjectMeta{Namespace: namespace, Name: name},
		Spec: corev1.PodSpec{
			Containers: []corev1.Container{
				{
					Name:      "main",
					Image:     image,
					Resources: corev1.ResourceRequirements{Requests: requests},
				},
			},
		},
	}
}

func TestResolve(t *testing.T) {
	client := fake.NewSimpleClientset(
		newPod("default", "web-0", "registry.example.com/web:v2", "100m", "256Mi"),
		newPod("default", "bare-0", "busybox", "", ""),
	)
	r := NewResolver(client, time.Minute)

	tests := []struct {
		name      string
		namespace string
		pod       string
		want      PodInfo
		wantErr   bool
	}{
		{
			name:      "with requests",
			namespace: "default",
			pod:       "web-0",
			want: PodInfo{
				Image:              "registry.example.com/web:v2",
				RequestedCPUMillis: 100,
				RequestedMemoryMiB: 256,
			},
		},
		{
			name:      "without requests",
			namespace: "default",
			pod:       "bare-0",
			want:      PodInfo{Image: "busybox"},
		},
		{
			name:      "missing pod",
			namespace: "default",
			pod:       "gone-0",
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Resolve(context.Background(), tt.namespace, tt.pod)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Resolve() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Errorf("Resolve() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestResolveCaches(t *testing.T) {
	client := fake.NewSimpleClientset(
		newPod("default", "web-0", "registry.example.com/web:v2", "100m", "256Mi"),
	)
	fakeClock := testingclock.NewFakePassiveClock(time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC))

	r := NewResolver(client, time.Minute)
	r.Clock = fakeClock

	ctx := context.Background()
	if _, err := r.Resolve(ctx, "default", "web-0"); err != nil {
		t.Fatal(err)
	}

	// Delete the pod; a cached resolve must still succeed until the TTL
	// expires.
	if err := client.CoreV1().Pods("default").Delete(ctx, "web-0", metav1.DeleteOptions{}); err != nil {
		t.Fatal(err)
	}

	if _, err := r.Resolve(ctx, "default", "web-0"); err != nil {
		t.Errorf("expected cache hit, got error: %v", err)
	}

	fakeClock.SetTime(fakeClock.Now().Add(2 * time.Minute))

	if _, err := r.Resolve(ctx, "default", "web-0"); err == nil {
		t.Error("expected error after TTL expiry with pod deleted")
	}
}

func TestInfoFromSpecNoContainers(t *testing.T) {
	info := infoFromSpec(&corev1.PodSpec{})
	if info.Image != measurement.UnknownImage {
		t.Errorf("Image = %q, want %q", info.Image, measurement.UnknownImage)
	}
}
